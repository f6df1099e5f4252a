package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
)

// AuditOptions holds flags for the audit command.
type AuditOptions struct {
	*RootOptions
	Document string
	NoRecord bool
	Strict   bool

	// RunIDs overrides the UUIDv7 run ids (for testing).
	RunIDs engine.RunIDGenerator
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit every schedule view of a document",
		Long: `Classify and audit every schedule view of a document without writing.

The report lists, per view, the items that are not correct; --verbose lists
every item. Each run is recorded in the database history unless --no-record
is given.

Exit codes:
  0 - Audit completed
  1 - --strict and the report has items to fix or errors
  2 - Command error (config, profile, database, document)

Examples:
  tablas audit --db model.db
  tablas audit --db model.db --document PRY-EST-01 --format json
  tablas audit --db model.db --strict`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Document, "document", "", "document title (default: first imported document)")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "do not record the run in the history")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when items need fixing or are in error")

	return cmd
}

func runAudit(ctx context.Context, opts *AuditOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	sess, err := openSession(ctx, opts.RootOptions, f, opts.Document)
	if err != nil {
		return err
	}
	defer sess.Close()

	rep, err := auditDocument(ctx, sess, opts.Logger, opts.RunIDs)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeAudit, "audit failed", err)
	}
	if !opts.NoRecord {
		if err := recordAudit(ctx, sess.store, rep); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record audit run", err)
		}
	}

	if err := f.Success(rep, func(w io.Writer) { renderReport(w, rep, opts.Verbose) }); err != nil {
		return err
	}
	if opts.Strict && rep.Summary.ToFix+rep.Summary.Errors > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d item(s) to fix, %d error(s)", rep.Summary.ToFix, rep.Summary.Errors))
	}
	return nil
}

func auditDocument(ctx context.Context, sess *session, logger *zap.Logger, ids engine.RunIDGenerator) (*engine.Report, error) {
	var popts []engine.ProcessorOption
	if ids != nil {
		popts = append(popts, engine.WithRunIDGenerator(ids))
	}
	proc := engine.NewProcessor(sess.rules, logger, popts...)
	return proc.Audit(ctx, sess.doc)
}

// recordAudit stores the run with its full JSON report.
func recordAudit(ctx context.Context, st *store.Store, rep *engine.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = st.RecordAudit(ctx, store.AuditRun{
		RunID:      rep.RunID,
		Document:   rep.Document,
		ReportHash: rep.Hash,
		Views:      rep.Summary.Views,
		ToFix:      rep.Summary.ToFix,
		Warnings:   rep.Summary.Warnings,
		Errors:     rep.Summary.Errors,
		Missing:    rep.Summary.Missing,
		Report:     data,
	})
	return err
}

// renderReport prints the summary and every record that is not complete.
// With all set, complete records and correct items are printed too.
func renderReport(w io.Writer, rep *engine.Report, all bool) {
	s := rep.Summary
	fmt.Fprintf(w, "Document: %s\n", rep.Document)
	fmt.Fprintf(w, "Run:      %s\n", rep.RunID)
	fmt.Fprintf(w, "Views:    %d (%d processed, %d reclassified, %d skipped)\n",
		s.Views, s.Processed, s.Reclassified, s.Skipped)
	fmt.Fprintf(w, "Items:    %d correct, %d warnings, %d to fix, %d errors\n",
		s.Correct, s.Warnings, s.ToFix, s.Errors)
	if s.Missing > 0 || s.Duplicates > 0 {
		fmt.Fprintf(w, "Missing schedules: %d, duplicate filter groups: %d\n", s.Missing, s.Duplicates)
	}

	for _, r := range rep.Records {
		if !all && r.Complete() {
			continue
		}
		fmt.Fprintln(w)
		if r.System {
			fmt.Fprintln(w, r.Name)
		} else {
			fmt.Fprintf(w, "#%d %s", r.ID, r.Name)
			if r.Code != "" {
				fmt.Fprintf(w, " [%s]", r.Code)
			}
			fmt.Fprintln(w)
		}
		for _, it := range r.Items {
			if !all && it.Status == ir.StatusCorrect {
				continue
			}
			renderItem(w, it)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Hash: %s\n", rep.Hash)
}

func renderItem(w io.Writer, it ir.AuditItem) {
	fmt.Fprintf(w, "  %-7s %-14s %s", it.Status, it.Kind, it.Message)
	switch {
	case it.Status == ir.StatusCorrect:
	case it.Current != "" && it.Expected != "":
		fmt.Fprintf(w, "\n          %q -> %q", it.Current, it.Expected)
	case it.Expected != "":
		fmt.Fprintf(w, "\n          expected %q", it.Expected)
	}
	fmt.Fprintln(w)
}

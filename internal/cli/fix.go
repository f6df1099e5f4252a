package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
)

// FixOptions holds flags for the fix command.
type FixOptions struct {
	*RootOptions
	Document string
	Kinds    []string
	DryRun   bool

	// RunIDs overrides the UUIDv7 run ids (for testing).
	RunIDs engine.RunIDGenerator
}

// FixResult is the outcome of the fix command.
type FixResult struct {
	RunID       string              `json:"run_id"`
	Document    string              `json:"document"`
	Kinds       []ir.AuditKind      `json:"kinds,omitempty"`
	DryRun      bool                `json:"dry_run"`
	Correctable int                 `json:"correctable"`
	Audit       engine.Summary      `json:"audit"`
	Result      ir.ProcessingResult `json:"result"`
	Reaudit     *engine.Summary     `json:"reaudit,omitempty"`
}

// NewFixCommand creates the fix command.
func NewFixCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FixOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Audit a document and write the corrections",
		Long: `Audit a document, then apply every correctable item in one transaction.

Per-item failures are reported and the remaining corrections still commit.
A cancelled or timed out pass (writer.timeout) rolls back everything. The
document is audited again after the write.

Kinds (--kinds, comma separated) restrict which corrections are written:
  VIEW_NAME, FILTER, COLUMNS, CONTENT, LINKS, PARTIAL_FORMAT,
  COMPANY_PARAM, RECLASSIFICATION

Exit codes:
  0 - All selected corrections applied
  1 - Some corrections failed or the transaction was rolled back
  2 - Command error (config, profile, database, document, kinds)

Examples:
  tablas fix --db model.db
  tablas fix --db model.db --kinds VIEW_NAME,FILTER
  tablas fix --db model.db --dry-run --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Document, "document", "", "document title (default: first imported document)")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kinds", nil, "correction kinds to apply (default: all)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "audit and count corrections without writing")

	return cmd
}

func parseKinds(raw []string) ([]ir.AuditKind, error) {
	var kinds []ir.AuditKind
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k, err := ir.ParseAuditKind(strings.ToUpper(s))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func runFix(ctx context.Context, opts *FixOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	kinds, err := parseKinds(opts.Kinds)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid --kinds", err)
	}

	sess, err := openSession(ctx, opts.RootOptions, f, opts.Document)
	if err != nil {
		return err
	}
	defer sess.Close()

	rep, err := auditDocument(ctx, sess, opts.Logger, opts.RunIDs)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeAudit, "audit failed", err)
	}
	if err := recordAudit(ctx, sess.store, rep); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to record audit run", err)
	}

	writer := engine.NewWriter(sess.profile, opts.Logger, engine.WithKinds(kinds...))
	out := FixResult{
		RunID:       rep.RunID,
		Document:    rep.Document,
		Kinds:       kinds,
		DryRun:      opts.DryRun,
		Correctable: countSelected(rep.Records, kinds),
		Audit:       rep.Summary,
		Result:      ir.ProcessingResult{Success: true},
	}

	if !opts.DryRun && out.Correctable > 0 {
		res, err := dispatchFix(ctx, sess.doc, writer, rep.Records, opts.Config.Writer.Timeout, opts.Logger)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeFix, "write pass failed", err)
		}
		out.Result = res
		if err := recordFix(ctx, sess.store, rep.RunID, res); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record fix run", err)
		}

		after, err := auditDocument(ctx, sess, opts.Logger, opts.RunIDs)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeAudit, "re-audit failed", err)
		}
		if err := recordAudit(ctx, sess.store, after); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record audit run", err)
		}
		out.Reaudit = &after.Summary
	}

	if err := f.Success(out, func(w io.Writer) { renderFix(w, out) }); err != nil {
		return err
	}
	if !out.Result.Success {
		return NewExitError(ExitFailure, fmt.Sprintf("%d correction(s) failed", len(out.Result.Errors)))
	}
	return nil
}

// dispatchFix runs the write pass through a single-writer dispatcher. The
// dispatcher loop and the submission share an errgroup so a failed
// submission stops the loop.
func dispatchFix(ctx context.Context, doc host.Document, w *engine.Writer, records []ir.ElementRecord, timeout time.Duration, logger *zap.Logger) (ir.ProcessingResult, error) {
	disp := engine.NewDispatcher(doc, w, logger, engine.WithTimeout(timeout))

	var res ir.ProcessingResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return disp.Run(gctx)
	})
	g.Go(func() error {
		defer disp.Stop()
		var err error
		res, err = disp.Apply(gctx, records)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("write pass failed", zap.Error(err))
		return ir.ProcessingResult{}, err
	}
	return res, nil
}

// countSelected counts the correctable items the writer will apply.
func countSelected(records []ir.ElementRecord, kinds []ir.AuditKind) int {
	selected := make(map[ir.AuditKind]bool, len(kinds))
	for _, k := range kinds {
		selected[k] = true
	}
	n := 0
	for _, r := range records {
		for _, it := range r.Correctable() {
			if len(kinds) == 0 || selected[it.Kind] {
				n++
			}
		}
	}
	return n
}

func recordFix(ctx context.Context, st *store.Store, runID string, res ir.ProcessingResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = st.RecordFix(ctx, store.FixRun{
		RunID:   runID,
		Success: res.Success,
		Fatal:   res.Fatal,
		Applied: res.Counts.Total(),
		Result:  data,
	})
	return err
}

func renderFix(w io.Writer, out FixResult) {
	fmt.Fprintf(w, "Document: %s\n", out.Document)
	fmt.Fprintf(w, "Run:      %s\n", out.RunID)
	if len(out.Kinds) > 0 {
		names := make([]string, len(out.Kinds))
		for i, k := range out.Kinds {
			names[i] = string(k)
		}
		fmt.Fprintf(w, "Kinds:    %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Correctable items: %d\n", out.Correctable)

	switch {
	case out.DryRun:
		fmt.Fprintln(w, "Dry run, nothing written.")
		return
	case out.Correctable == 0:
		fmt.Fprintln(w, "Nothing to fix.")
		return
	}

	res := out.Result
	c := res.Counts
	if res.Fatal {
		fmt.Fprintln(w, "Transaction rolled back.")
	} else {
		fmt.Fprintf(w, "Applied %d correction(s):\n", c.Total())
		for _, row := range []struct {
			label string
			n     int
		}{
			{"names", c.Names},
			{"reclassifications", c.Reclassifications},
			{"filters", c.Filters},
			{"formats", c.Formats},
			{"content", c.Content},
			{"links", c.Links},
			{"column renames", c.ColumnRenames},
			{"column hides", c.ColumnHides},
			{"company params", c.CompanyParams},
		} {
			if row.n > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", row.label, row.n)
			}
		}
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	if out.Reaudit != nil {
		fmt.Fprintf(w, "After: %d to fix, %d errors, %d warnings\n",
			out.Reaudit.ToFix, out.Reaudit.Errors, out.Reaudit.Warnings)
	}
}

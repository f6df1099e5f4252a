package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Document string
	Limit    int
}

// RunEntry is one audit run in the history listing.
type RunEntry struct {
	RunID      string    `json:"run_id"`
	Document   string    `json:"document"`
	CreatedAt  time.Time `json:"created_at"`
	ReportHash string    `json:"report_hash"`
	Views      int       `json:"views"`
	ToFix      int       `json:"to_fix"`
	Warnings   int       `json:"warnings"`
	Errors     int       `json:"errors"`
	Missing    int       `json:"missing"`
}

// FixEntry is one write pass of an audit run.
type FixEntry struct {
	CreatedAt time.Time       `json:"created_at"`
	Success   bool            `json:"success"`
	Fatal     bool            `json:"fatal"`
	Applied   int             `json:"applied"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// RunDetail is the output of history show.
type RunDetail struct {
	RunEntry
	Report json.RawMessage `json:"report,omitempty"`
	Fixes  []FixEntry      `json:"fixes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded audit runs",
		Long: `List the audit runs recorded in the database, newest first.

Examples:
  tablas history --db model.db
  tablas history --db model.db --document PRY-ARQ-01 --limit 5
  tablas history show <run-id> --db model.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Document, "document", "", "only runs of this document")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one audit run with its write passes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd.Context(), rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	st, err := openHistory(opts.RootOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.AuditRuns(ctx, opts.Document, opts.Limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}
	entries := make([]RunEntry, len(runs))
	for i, r := range runs {
		entries[i] = runEntry(r)
	}

	return f.Success(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No audit runs recorded.")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s  %-20s %3d views  %3d to fix  %3d errors  %3d warnings\n",
				e.CreatedAt.Format(time.RFC3339), e.RunID, e.Document, e.Views, e.ToFix, e.Errors, e.Warnings)
		}
	})
}

func runHistoryShow(ctx context.Context, opts *RootOptions, runID string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	st, err := openHistory(opts, f)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.AuditRun(ctx, runID)
	if err != nil {
		code := ErrCodeStore
		if isNotFound(err) {
			code = ErrCodeNotFound
		}
		return f.Fail(ExitCommandError, code, fmt.Sprintf("run %s not found", runID), err)
	}
	fixes, err := st.FixRuns(ctx, runID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read fix runs", err)
	}

	detail := RunDetail{
		RunEntry: runEntry(run),
		Report:   rawJSON(run.Report),
		Fixes:    make([]FixEntry, len(fixes)),
	}
	for i, fx := range fixes {
		detail.Fixes[i] = FixEntry{
			CreatedAt: fx.CreatedAt,
			Success:   fx.Success,
			Fatal:     fx.Fatal,
			Applied:   fx.Applied,
			Result:    rawJSON(fx.Result),
		}
	}

	return f.Success(detail, func(w io.Writer) {
		e := detail.RunEntry
		fmt.Fprintf(w, "Run:      %s\n", e.RunID)
		fmt.Fprintf(w, "Document: %s\n", e.Document)
		fmt.Fprintf(w, "Recorded: %s\n", e.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Hash:     %s\n", e.ReportHash)
		fmt.Fprintf(w, "Views: %d, to fix: %d, errors: %d, warnings: %d, missing: %d\n",
			e.Views, e.ToFix, e.Errors, e.Warnings, e.Missing)
		if len(detail.Fixes) == 0 {
			fmt.Fprintln(w, "No write passes.")
			return
		}
		for _, fx := range detail.Fixes {
			status := "ok"
			switch {
			case fx.Fatal:
				status = "rolled back"
			case !fx.Success:
				status = "partial"
			}
			fmt.Fprintf(w, "  %s  %-11s %d applied\n", fx.CreatedAt.Format(time.RFC3339), status, fx.Applied)
		}
	})
}

func openHistory(opts *RootOptions, f *OutputFormatter) (*store.Store, error) {
	if err := opts.resolve(); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	st, err := openStore(opts.Config, false)
	if err != nil {
		code := ErrCodeStore
		if isNotFound(err) {
			code = ErrCodeNotFound
		}
		return nil, f.Fail(ExitCommandError, code, "failed to open database", err)
	}
	return st, nil
}

func runEntry(r store.AuditRun) RunEntry {
	return RunEntry{
		RunID:      r.RunID,
		Document:   r.Document,
		CreatedAt:  r.CreatedAt,
		ReportHash: r.ReportHash,
		Views:      r.Views,
		ToFix:      r.ToFix,
		Warnings:   r.Warnings,
		Errors:     r.Errors,
		Missing:    r.Missing,
	}
}

// rawJSON passes stored JSON through; anything else is dropped.
func rawJSON(data []byte) json.RawMessage {
	if len(data) == 0 || !json.Valid(data) {
		return nil
	}
	return json.RawMessage(data)
}

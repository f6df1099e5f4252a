package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

// RulesResult is the output of the rules command.
type RulesResult struct {
	Source  string             `json:"source"`
	Summary rules.Summary      `json:"summary"`
	Models  []rules.ModelGroup `json:"models,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Load the rule sheets and summarize them",
		Long: `Read the classification matrix, the model groups and the keyword lists
from the configured source (rules.source: xlsx, sheets or none) and print
what was loaded. Unreadable sheets are logged and count as empty.

Examples:
  tablas rules -c tablas.yaml
  tablas rules --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.Context(), rootOpts, cmd)
		},
	}
}

func runRules(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	if err := opts.resolve(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	p, err := loadProfile(opts.Config)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeProfile, "invalid profile", err)
	}
	rs, err := loadRules(ctx, opts.Config, p, opts.Logger)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeRules, "failed to open rule source", err)
	}

	res := RulesResult{
		Source:  opts.Config.Rules.Source,
		Summary: rs.Summarize(),
		Models:  rs.Models(),
	}
	return f.Success(res, func(w io.Writer) {
		s := res.Summary
		fmt.Fprintf(w, "Source:       %s\n", res.Source)
		fmt.Fprintf(w, "Matrix codes: %d (%d manual, %d automatic)\n", s.MatrixCodes, s.Manual, s.Automatic)
		fmt.Fprintf(w, "Model groups: %d\n", s.ModelGroups)
		for _, m := range res.Models {
			fmt.Fprintf(w, "  %-12s %s\n", m.Group, m.Model)
		}
		fmt.Fprintf(w, "WIP tokens:   %s\n", strings.Join(s.WIPTokens, ", "))
		fmt.Fprintf(w, "Copy tokens:  %s\n", strings.Join(s.CopyTokens, ", "))
	})
}

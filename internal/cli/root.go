// Package cli implements the tablas command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/config"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides store.path

	// Config and Logger are resolved on first use. Tests set them directly.
	Config *config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tablas CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tablas",
		Short: "tablas - schedule audit and correction",
		Long: `Audits the schedule views of a building model against the classification
matrix and the company profile, and writes the corrections back in a single
transaction.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./tablas.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "SQLite model database (overrides store.path)")

	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewFixCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the config and builds the logger once.
func (o *RootOptions) resolve() error {
	if o.Config == nil {
		cfg, err := config.Load(config.Options{Path: o.ConfigPath})
		if err != nil {
			return err
		}
		o.Config = cfg
	}
	if o.Database != "" {
		o.Config.Store.Path = o.Database
	}
	if o.Logger == nil {
		level := o.Config.Log.Level
		if o.Verbose {
			level = "debug"
		}
		logger, err := logging.New(logging.Options{Level: level, Format: o.Config.Log.Format})
		if err != nil {
			return err
		}
		o.Logger = logger
	}
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

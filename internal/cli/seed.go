package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
)

// SeedResult describes an imported model.
type SeedResult struct {
	Database  string `json:"database"`
	Document  string `json:"document"`
	ID        int64  `json:"id"`
	Views     int    `json:"views"`
	Types     int    `json:"types"`
	Materials int    `json:"materials"`
	Links     int    `json:"links"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <model.yaml>",
		Short: "Import a YAML model into the database",
		Long: `Import a YAML building model (views, element types, materials and linked
documents) into the SQLite database, creating it if needed. Linked models
are imported as separate documents. A title that is already imported is
rejected.

Examples:
  tablas seed --db model.db testdata/project.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSeed(ctx context.Context, opts *RootOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	if err := opts.resolve(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	model, err := host.LoadModel(path)
	if err != nil {
		code := ErrCodeGeneric
		if isNotFound(err) {
			code = ErrCodeNotFound
		}
		return f.Fail(ExitCommandError, code, "failed to load model", err)
	}
	snap, err := model.Build()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid model", err)
	}

	st, err := openStore(opts.Config, true)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	id, err := st.Import(ctx, snap)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "import failed", err)
	}
	opts.Logger.Sugar().Infow("model imported", "document", snap.Title, "id", id)

	res := SeedResult{
		Database:  opts.Config.Store.Path,
		Document:  snap.Title,
		ID:        id,
		Views:     len(snap.Views),
		Types:     len(snap.Types),
		Materials: len(snap.Materials),
		Links:     len(snap.Links),
	}
	return f.Success(res, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %s into %s (document %d)\n", res.Document, res.Database, res.ID)
		fmt.Fprintf(w, "  %d views, %d element types, %d materials, %d links\n",
			res.Views, res.Types, res.Materials, res.Links)
	})
}

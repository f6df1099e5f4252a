package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/compiler"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// ProfileValidation holds the result of profile validate.
type ProfileValidation struct {
	Dir    string                     `json:"dir"`
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect the company profile",
		Long: `Compile and inspect the CUE company profile.

The profile directory comes from the argument, or profile.dir in the
config. Without either the built-in profile is used.`,
	}
	cmd.AddCommand(newProfileValidateCommand(rootOpts))
	cmd.AddCommand(newProfileShowCommand(rootOpts))
	return cmd
}

func newProfileValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Compile and validate a profile",
		Long: `Compile the CUE profile package against the schema and run the
profile checks.

Exit codes:
  0 - Profile is valid
  1 - Profile has errors

Examples:
  tablas profile validate ./profile
  tablas profile validate ./profile --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileValidate(rootOpts, args, cmd)
		},
	}
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show [dir]",
		Short:         "Print the compiled profile",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(rootOpts, args, cmd)
		},
	}
}

// profileDir picks the argument over the configured directory.
func profileDir(opts *RootOptions, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if err := opts.resolve(); err != nil {
		return "", err
	}
	return opts.Config.Profile.Dir, nil
}

func runProfileValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	dir, err := profileDir(opts, args)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	res := ProfileValidation{Dir: dir, Valid: true}
	p, err := compiler.LoadProfileDir(dir)
	if err != nil {
		res.Errors = profileErrors(err)
	} else {
		res.Errors = compiler.ValidateProfile(p)
	}
	res.Valid = len(res.Errors) == 0
	f.VerboseLog("profile %q: %d error(s)", dir, len(res.Errors))

	if !res.Valid {
		if f.JSON() {
			resp := CLIResponse{
				Status: "error",
				Data:   res,
				Error: &CLIError{
					Code:    ErrCodeProfile,
					Message: fmt.Sprintf("%d profile error(s)", len(res.Errors)),
				},
			}
			enc := json.NewEncoder(f.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(f.Writer, "✗ Profile has %d error(s):\n", len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(f.Writer, "  %s\n", e.Error())
			}
		}
		return NewExitError(ExitFailure, "profile validation failed")
	}

	return f.Success(res, func(w io.Writer) {
		if dir == "" {
			fmt.Fprintln(w, "✓ Built-in profile is valid")
			return
		}
		fmt.Fprintf(w, "✓ Profile %s is valid\n", dir)
	})
}

func runProfileShow(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	dir, err := profileDir(opts, args)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	p, err := compiler.LoadProfileDir(dir)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeProfile, "invalid profile", err)
	}
	return f.Success(p, func(w io.Writer) { renderProfile(w, p) })
}

// profileErrors turns a compile failure into validation errors.
func profileErrors(err error) []compiler.ValidationError {
	var ve compiler.ValidationError
	if errors.As(err, &ve) {
		return []compiler.ValidationError{ve}
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return []compiler.ValidationError{{Field: ce.Field, Message: ce.Error(), Code: ErrCodeProfile}}
	}
	return []compiler.ValidationError{{Field: "profile", Message: err.Error(), Code: ErrCodeProfile}}
}

func renderProfile(w io.Writer, p ir.Profile) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

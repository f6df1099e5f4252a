package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/compiler"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/config"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
)

// ProfileError carries the validation failures of a compiled profile.
type ProfileError struct {
	Errors []compiler.ValidationError
}

func (e *ProfileError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}

// loadProfile compiles the configured profile directory and validates it.
// An empty directory yields the built-in profile.
func loadProfile(cfg *config.Config) (ir.Profile, error) {
	p, err := compiler.LoadProfileDir(cfg.Profile.Dir)
	if err != nil {
		return ir.Profile{}, err
	}
	if errs := compiler.ValidateProfile(p); len(errs) > 0 {
		return ir.Profile{}, &ProfileError{Errors: errs}
	}
	return p, nil
}

// openRuleReader opens the configured rule source. The returned close
// function is never nil. A "none" source yields a nil reader.
func openRuleReader(ctx context.Context, rc config.RulesConfig) (rules.SheetReader, func() error, error) {
	noop := func() error { return nil }
	switch rc.Source {
	case config.SourceXLSX:
		x, err := rules.OpenXLSX(rc.Workbook)
		if err != nil {
			return nil, noop, err
		}
		return x, x.Close, nil
	case config.SourceSheets:
		var opts []option.ClientOption
		if rc.CredentialsFile != "" {
			opts = append(opts, rules.CredentialsOption(rc.CredentialsFile))
		}
		r, err := rules.NewSheetsReader(ctx, rc.SpreadsheetID, opts...)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil
	case config.SourceNone, "":
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown rule source %q", rc.Source)
	}
}

// loadRules reads the rule sheets once for a pass. Unreadable sheets are
// logged by rules.Load and treated as empty; only an unusable source is an
// error.
func loadRules(ctx context.Context, cfg *config.Config, p ir.Profile, logger *zap.Logger) (*rules.RuleSet, error) {
	r, closeFn, err := openRuleReader(ctx, cfg.Rules)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			logger.Warn("closing rule source", zap.Error(cerr))
		}
	}()
	sheets := rules.Sheets{
		Matrix:   cfg.Rules.MatrixSheet,
		Models:   cfg.Rules.ModelsSheet,
		Keywords: cfg.Rules.KeywordsSheet,
	}
	return rules.Load(ctx, r, sheets, p, logger), nil
}

// openStore opens the model database. Unless create is set the file must
// already exist.
func openStore(cfg *config.Config, create bool) (*store.Store, error) {
	path := cfg.Store.Path
	if !create && path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database %s: %w", path, err)
		}
	}
	return store.Open(path)
}

// isNotFound reports missing documents, runs and files.
func isNotFound(err error) bool {
	return errors.Is(err, host.ErrNotFound) || errors.Is(err, store.ErrRunNotFound) || errors.Is(err, os.ErrNotExist)
}

// session is what audit and fix share: the resolved profile and rules and
// the opened document.
type session struct {
	profile ir.Profile
	rules   *rules.RuleSet
	store   *store.Store
	doc     host.Document
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession resolves everything a pass needs. Failures are reported
// through f and returned as ExitErrors.
func openSession(ctx context.Context, opts *RootOptions, f *OutputFormatter, document string) (*session, error) {
	if err := opts.resolve(); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	p, err := loadProfile(opts.Config)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeProfile, "invalid profile", err)
	}
	rs, err := loadRules(ctx, opts.Config, p, opts.Logger)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeRules, "failed to open rule source", err)
	}
	st, err := openStore(opts.Config, false)
	if err != nil {
		code := ErrCodeStore
		if isNotFound(err) {
			code = ErrCodeNotFound
		}
		return nil, f.Fail(ExitCommandError, code, "failed to open database", err)
	}
	doc, err := st.Document(ctx, document)
	if err != nil {
		st.Close()
		code := ErrCodeStore
		if isNotFound(err) {
			code = ErrCodeNotFound
		}
		return nil, f.Fail(ExitCommandError, code, fmt.Sprintf("document %q not found", document), err)
	}
	f.VerboseLog("document %s, %d matrix codes", doc.Title(), len(rs.Codes()))
	return &session{profile: p, rules: rs, store: st, doc: doc}, nil
}

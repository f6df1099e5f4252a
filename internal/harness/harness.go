package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/engine"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/store"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/testutil"
)

// Option configures a scenario run.
type Option func(*options)

type options struct {
	profile ir.Profile
	logger  *zap.Logger
}

// WithProfile runs the scenario under p instead of the built-in profile.
func WithProfile(p ir.Profile) Option {
	return func(o *options) { o.profile = p }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed run id.
//
// Execution flow:
//  1. Import the scenario model into the store
//  2. Audit the document
//  3. Apply the correctable items in one transaction, tracing every write
//  4. Audit again
//  5. Evaluate assertions
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{profile: ir.DefaultProfile(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:", store.WithClock(testutil.NewDeterministicClock()))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	snap, err := scenario.Model.Build()
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	if _, err := st.Import(ctx, snap); err != nil {
		return nil, err
	}
	doc, err := st.Document(ctx, snap.Title)
	if err != nil {
		return nil, err
	}

	rs := scenario.Rules.RuleSet(o.profile)
	proc := engine.NewProcessor(rs, o.logger, engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator()))

	var wopts []engine.WriterOption
	if len(scenario.Kinds) > 0 {
		kinds := make([]ir.AuditKind, len(scenario.Kinds))
		for i, k := range scenario.Kinds {
			kinds[i] = ir.AuditKind(k)
		}
		wopts = append(wopts, engine.WithKinds(kinds...))
	}
	writer := engine.NewWriter(o.profile, o.logger, wopts...)

	result := NewResult()
	if result.Audit, err = proc.Audit(ctx, doc); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	result.Fix = writer.Apply(ctx, &tracingDocument{Document: doc, result: result}, result.Audit.Records)
	if result.Reaudit, err = proc.Audit(ctx, doc); err != nil {
		return nil, fmt.Errorf("re-audit: %w", err)
	}

	views, err := doc.Schedules(ctx, host.ViewQuery{IncludeTemplates: true})
	if err != nil {
		return nil, fmt.Errorf("read final state: %w", err)
	}
	for _, v := range views {
		result.Final[v.ID] = v
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// DefaultDispatchTimeout bounds a single write pass.
const DefaultDispatchTimeout = 5 * time.Minute

// Dispatcher owns a document and runs write passes on one goroutine, in
// submission order. Callers block in Apply until their pass completes.
type Dispatcher struct {
	doc     host.Document
	writer  *Writer
	timeout time.Duration
	queue   *jobQueue
	clock   *Clock
	logger  *zap.Logger

	stopOnce sync.Once
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimeout overrides DefaultDispatchTimeout. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithClock sets the clock numbering jobs.
func WithClock(c *Clock) DispatcherOption {
	return func(disp *Dispatcher) { disp.clock = c }
}

// NewDispatcher creates a dispatcher. Run must be started before Apply.
func NewDispatcher(doc host.Document, w *Writer, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		doc:     doc,
		writer:  w,
		timeout: DefaultDispatchTimeout,
		queue:   newJobQueue(),
		clock:   NewClock(),
		logger:  logger,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run processes jobs until ctx is done or Stop is called. It returns
// ctx.Err() on cancellation and nil after Stop.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if j, ok := d.queue.TryDequeue(); ok {
			d.run(j)
			continue
		}
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case _, open := <-d.queue.Wait():
			if !open {
				return nil
			}
		}
	}
}

func (d *Dispatcher) run(j *job) {
	log := d.logger.With(zap.Int64("job", j.seq))
	if err := j.ctx.Err(); err != nil {
		log.Warn("job abandoned before start", zap.Error(err))
		j.done <- ir.ProcessingResult{Fatal: true, Errors: []string{err.Error()}}
		return
	}
	start := time.Now()
	log.Info("write pass started", zap.Int("records", len(j.records)))
	res := d.writer.Apply(j.ctx, d.doc, j.records)
	log.Info("write pass finished",
		zap.Bool("success", res.Success),
		zap.Bool("fatal", res.Fatal),
		zap.Duration("elapsed", time.Since(start)))
	j.done <- res
}

// Apply submits a write pass and waits for it. It returns
// ErrDispatchTimeout when the pass exceeds the timeout; the pass is then
// cancelled and rolled back.
func (d *Dispatcher) Apply(ctx context.Context, records []ir.ElementRecord) (ir.ProcessingResult, error) {
	jctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	j := &job{
		seq:     d.clock.Next(),
		ctx:     jctx,
		records: records,
		done:    make(chan ir.ProcessingResult, 1),
	}
	if !d.queue.Enqueue(j) {
		return ir.ProcessingResult{}, ErrDispatcherStopped
	}

	select {
	case res, ok := <-j.done:
		if !ok {
			return ir.ProcessingResult{}, ErrDispatcherStopped
		}
		return res, nil
	case <-jctx.Done():
		if ctx.Err() == nil && errors.Is(jctx.Err(), context.DeadlineExceeded) {
			return ir.ProcessingResult{}, ErrDispatchTimeout
		}
		return ir.ProcessingResult{}, ctx.Err()
	}
}

// Stop rejects new jobs and fails pending ones with ErrDispatcherStopped.
// A running pass completes.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		for _, j := range d.queue.Close() {
			close(j.done)
		}
	})
}

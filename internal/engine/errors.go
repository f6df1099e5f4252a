package engine

import (
	"errors"
	"fmt"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

var (
	// ErrDispatchTimeout is returned when a write pass does not finish
	// within the dispatcher timeout.
	ErrDispatchTimeout = errors.New("write pass timed out")

	// ErrDispatcherStopped is returned for jobs submitted to, or pending
	// in, a stopped dispatcher.
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)

// WriteError is a per-item failure of a write pass. The pass continues
// after it.
type WriteError struct {
	View   string
	ViewID ir.ElementID
	Kind   ir.AuditKind
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s (#%d) %s: %v", e.View, e.ViewID, e.Kind, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FatalError aborts a write pass. Every change of the pass is rolled back.
type FatalError struct {
	Phase string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal during %s: %v", e.Phase, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

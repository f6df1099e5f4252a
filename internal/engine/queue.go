package engine

import (
	"context"
	"sync"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

// job is one write pass submitted to the Dispatcher.
type job struct {
	seq     int64
	ctx     context.Context
	records []ir.ElementRecord
	done    chan ir.ProcessingResult // buffered, size 1
}

// jobQueue is an unbounded FIFO of jobs. Enqueue may be called from any
// goroutine; the Dispatcher loop is the only consumer.
type jobQueue struct {
	mu     sync.Mutex
	jobs   []*job
	closed bool
	signal chan struct{} // buffered, size 1
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		jobs:   make([]*job, 0, 8),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends j. It returns false once the queue is closed.
func (q *jobQueue) Enqueue(j *job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.jobs = append(q.jobs, j)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front job without blocking.
func (q *jobQueue) TryDequeue() (*job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return nil, false
	}
	j := q.jobs[0]
	q.jobs[0] = nil
	if len(q.jobs) == 1 {
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}
	return j, true
}

// Wait returns a channel that fires when jobs may be available. It is
// closed by Close.
func (q *jobQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending jobs.
func (q *jobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close stops accepting jobs and wakes the consumer. Pending jobs are
// returned so the caller can fail them.
func (q *jobQueue) Close() []*job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.signal)
	pending := q.jobs
	q.jobs = nil
	return pending
}

// Package tasks runs store operations on a small worker pool so the
// interactive thread never blocks on the database. Every submitted task
// terminates with exactly one callback, delivered on the goroutine that
// runs Dispatch.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task states. A task moves queued → running → one of the terminal states.
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
	StateCancelled = "cancelled"
)

// Operation is the unit of background work. It must honor ctx cancellation;
// timeouts and running-task cancellation are cooperative only.
type Operation func(ctx context.Context) (any, error)

// Task bundles an operation with its terminal callbacks. Exactly one of
// OnSuccess or OnFailure fires per task, unless the task is cancelled while
// still queued, in which case neither fires. A nil callback is skipped but
// still counts as the task's single delivery.
type Task struct {
	Op        Operation
	OnSuccess func(result any)
	OnFailure func(err error)

	// Timeout bounds the operation. Zero means no timeout.
	Timeout time.Duration

	// SuppressCancelled drops the callback for a task cancelled while
	// running. By default such a task still delivers its single callback
	// (usually the failure path with context.Canceled).
	SuppressCancelled bool
}

// Handle identifies a submitted task and tracks its state.
type Handle struct {
	id string

	mu               sync.Mutex
	state            string
	cancel           context.CancelFunc // set while running
	cancelRequested  bool               // Cancel was called after start
	suppressOnCancel bool               // copied from Task.SuppressCancelled
}

func newHandle(suppressOnCancel bool) *Handle {
	h := &Handle{state: StateQueued, suppressOnCancel: suppressOnCancel}
	id, err := uuid.NewV7()
	if err != nil {
		h.id = uuid.New().String()
		return h
	}
	h.id = id.String()
	return h
}

// ID returns the task's unique identifier.
func (h *Handle) ID() string {
	return h.id
}

// State returns the task's current state.
func (h *Handle) State() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// startRunning transitions queued → running. Returns false if the task was
// cancelled while queued, in which case it must not run.
func (h *Handle) startRunning(cancel context.CancelFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateQueued {
		return false
	}
	h.state = StateRunning
	h.cancel = cancel
	return true
}

// finish records the terminal state. Returns false when the callback is
// suppressed because the task was cancelled while running and asked for
// suppression.
func (h *Handle) finish(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cancel = nil
	if h.cancelRequested {
		h.state = StateCancelled
		return !h.suppressOnCancel
	}
	h.state = state
	return true
}

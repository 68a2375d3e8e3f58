package types

import (
	"errors"
	"fmt"
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Query and pool errors.
var (
	// ErrInvalidArgument is returned synchronously for bad pagination
	// arguments, before any I/O happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPoolExhausted is returned when no connection becomes available
	// within the configured acquire timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrPoolClosed is returned by Acquire after the pool has been closed.
	ErrPoolClosed = errors.New("connection pool closed")

	// ErrConnectionFault is returned when a pooled connection fails its
	// liveness probe and the replacement slot also fails. The pool retries
	// one replacement transparently before surfacing this.
	ErrConnectionFault = errors.New("connection fault")

	// ErrQueryFailed is the sentinel matched by errors.Is for any
	// *QueryError. The concrete cause is available via errors.Unwrap.
	ErrQueryFailed = errors.New("query failed")

	// ErrNotFound is returned when an entity lookup matches no row.
	ErrNotFound = errors.New("entity not found")
)

// Background task errors.
var (
	// ErrTaskTimeout marks a task that exceeded its per-task timeout.
	// The underlying operation is cancelled cooperatively and may still
	// be running when the failure callback fires.
	ErrTaskTimeout = errors.New("task timed out")

	// ErrQueueFull is returned by Submit when the task queue is at
	// capacity. Submit never blocks the caller.
	ErrQueueFull = errors.New("task queue full")

	// ErrManagerClosed is returned by Submit after the manager has shut down.
	ErrManagerClosed = errors.New("task manager closed")
)

// QueryError wraps any execution-time fault from the paged query executor.
// Raw driver errors never cross the executor boundary; callers match with
// errors.Is(err, ErrQueryFailed) and recover the cause with errors.Unwrap.
type QueryError struct {
	Statement string // the statement that failed, for logging
	Err       error  // the underlying cause
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrQueryFailed sentinel, so that
// errors.Is(err, ErrQueryFailed) matches any QueryError.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

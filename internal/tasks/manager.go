package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dukaforge/stockroom/pkg/types"
)

// job pairs a task with its handle on the worker queue.
type job struct {
	task   Task
	handle *Handle
}

// delivery is one terminal outcome waiting for the dispatch goroutine.
type delivery struct {
	task   Task
	handle *Handle
	result any
	err    error
}

// Manager dispatches store operations to a fixed worker pool and delivers
// each task's single terminal callback through Dispatch. Submit never blocks
// the calling goroutine.
type Manager struct {
	queue      chan job
	deliveries chan delivery
	logger     *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewManager starts workers goroutines consuming a queue of depth queueDepth.
// Non-positive arguments fall back to the defaults. A nil logger is replaced
// with a no-op logger. Callers must run Dispatch (typically on the
// interactive goroutine) to receive callbacks, and Close when done.
func NewManager(workers, queueDepth int, logger *zap.Logger) *Manager {
	if workers <= 0 {
		workers = types.DefaultWorkers
	}
	if queueDepth <= 0 {
		queueDepth = types.DefaultQueueDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		queue:      make(chan job, queueDepth),
		deliveries: make(chan delivery, queueDepth),
		logger:     logger,
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}
	return m
}

// Submit enqueues a task and returns its handle without blocking. It fails
// with types.ErrQueueFull when the queue is at capacity and
// types.ErrManagerClosed after Close.
func (m *Manager) Submit(task Task) (*Handle, error) {
	// The mutex is held across the enqueue so a concurrent Close cannot
	// close the queue between the closed check and the send. The send never
	// blocks, so holding it here is cheap.
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, types.ErrManagerClosed
	}

	h := newHandle(task.SuppressCancelled)
	select {
	case m.queue <- job{task: task, handle: h}:
		return h, nil
	default:
		return nil, types.ErrQueueFull
	}
}

// Cancel cancels the task best-effort. A task still queued is marked
// cancelled and neither callback fires. A task already running has its
// context cancelled and still delivers its single callback, unless the
// task set SuppressCancelled. Returns true when the task had not started.
func (m *Manager) Cancel(h *Handle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case StateQueued:
		h.state = StateCancelled
		return true
	case StateRunning:
		h.cancelRequested = true
		if h.cancel != nil {
			h.cancel()
		}
		return false
	default:
		return false
	}
}

// Dispatch invokes terminal callbacks, one per finished task, on the calling
// goroutine. It returns when ctx is cancelled or the manager is closed and
// all pending deliveries are drained. UI-adjacent code stays single-threaded
// by running Dispatch on its own event loop.
func (m *Manager) Dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-m.deliveries:
			if !ok {
				return
			}
			m.deliver(d)
		}
	}
}

// Close stops accepting tasks, waits for in-flight work, and closes the
// delivery channel so Dispatch returns after draining. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	close(m.deliveries)
}

// worker consumes the queue until Close.
func (m *Manager) worker() {
	defer m.wg.Done()

	for j := range m.queue {
		m.run(j)
	}
}

// run executes one task and posts at most one delivery.
func (m *Manager) run(j job) {
	ctx := context.Background()
	var cancel context.CancelFunc
	if j.task.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, j.task.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	if !j.handle.startRunning(cancel) {
		// Cancelled while queued: neither callback fires.
		return
	}

	start := time.Now()
	result, err := j.task.Op(ctx)

	// A lapsed timeout overrides the operation's own outcome. The operation
	// may still be running its final stretch; cancellation is cooperative.
	if j.task.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = types.ErrTaskTimeout
		m.logger.Warn("task timed out",
			zap.String("task_id", j.handle.ID()),
			zap.Duration("timeout", j.task.Timeout),
			zap.Duration("elapsed", time.Since(start)))
	}

	state := StateCompleted
	if err != nil {
		state = StateFailed
	}

	if !j.handle.finish(state) {
		// Cancelled while running with suppression: outcome is discarded.
		m.logger.Debug("suppressing callback for cancelled task",
			zap.String("task_id", j.handle.ID()))
		return
	}

	m.deliveries <- delivery{task: j.task, handle: j.handle, result: result, err: err}
}

// deliver invokes exactly one callback for a finished task.
func (m *Manager) deliver(d delivery) {
	if d.err != nil {
		if d.task.OnFailure != nil {
			d.task.OnFailure(d.err)
		}
		return
	}
	if d.task.OnSuccess != nil {
		d.task.OnSuccess(d.result)
	}
}

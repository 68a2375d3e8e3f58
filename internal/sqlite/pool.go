package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dukaforge/stockroom/pkg/types"
)

// pingTimeout bounds the liveness probe on acquire.
const pingTimeout = time.Second

// slot is one pool position. conn is nil when the slot's connection was
// destroyed after a fault; the next acquire recreates it lazily.
type slot struct {
	conn *sql.Conn
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	Size      int   `json:"size"`
	Idle      int   `json:"idle"`
	Acquires  int64 `json:"acquires"`
	Waits     int64 `json:"waits"`
	Exhausted int64 `json:"exhausted"`
	Faults    int64 `json:"faults"`
	Recreated int64 `json:"recreated"`
}

// Pool owns a fixed set of dedicated connections to the backing store.
// Acquire hands out exclusive ownership of one connection; Release returns
// it. The pool never grows; an exhausted pool makes callers wait up to the
// configured bound and then fail with types.ErrPoolExhausted.
type Pool struct {
	db             *sql.DB
	size           int
	acquireTimeout time.Duration
	idle           chan *slot
	logger         *zap.Logger

	mu     sync.Mutex
	closed bool
	stats  PoolStats
}

// Lease is temporary exclusive ownership of one pooled connection between
// Acquire and Release.
type Lease struct {
	s    *slot
	pool *Pool
}

// Conn returns the leased connection.
func (l *Lease) Conn() *sql.Conn {
	return l.s.conn
}

// newPool creates size connections up front. Connections that cannot be
// created at construction fail Attach rather than being deferred.
func newPool(ctx context.Context, db *sql.DB, size int, acquireTimeout time.Duration, logger *zap.Logger) (*Pool, error) {
	p := &Pool{
		db:             db,
		size:           size,
		acquireTimeout: acquireTimeout,
		idle:           make(chan *slot, size),
		logger:         logger,
	}
	p.stats.Size = size

	for i := 0; i < size; i++ {
		conn, err := db.Conn(ctx)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.idle <- &slot{conn: conn}
	}
	return p, nil
}

// Acquire blocks until a connection is available or the wait bound elapses,
// returning types.ErrPoolExhausted in the latter case. The connection is
// probed on the way out; a dead connection is destroyed and its slot
// recreated once transparently, and types.ErrConnectionFault surfaces only
// when the replacement also fails. Callers may retry once on that error.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, types.ErrPoolClosed
	}
	p.stats.Acquires++
	p.mu.Unlock()

	var s *slot
	select {
	case s = <-p.idle:
	default:
		// No idle connection: wait up to the bound.
		p.mu.Lock()
		p.stats.Waits++
		p.mu.Unlock()

		timer := time.NewTimer(p.acquireTimeout)
		defer timer.Stop()
		select {
		case s = <-p.idle:
		case <-timer.C:
			p.mu.Lock()
			p.stats.Exhausted++
			p.mu.Unlock()
			return nil, types.ErrPoolExhausted
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := p.ensureLive(ctx, s); err != nil {
		// Slot goes back empty; the next acquire recreates it lazily.
		p.idle <- s
		return nil, err
	}
	return &Lease{s: s, pool: p}, nil
}

// Release returns the lease's slot to the idle set. Release after Close
// closes the connection instead.
func (p *Pool) Release(l *Lease) {
	if l == nil {
		return
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		if l.s.conn != nil {
			l.s.conn.Close()
			l.s.conn = nil
		}
		return
	}
	p.idle <- l.s
}

// ensureLive probes the slot's connection, recreating it once on failure.
func (p *Pool) ensureLive(ctx context.Context, s *slot) error {
	if s.conn != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := s.conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}

		p.logger.Warn("pooled connection failed liveness probe", zap.Error(err))
		s.conn.Close()
		s.conn = nil
		p.mu.Lock()
		p.stats.Faults++
		p.mu.Unlock()
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		p.logger.Error("recreating pooled connection failed", zap.Error(err))
		return types.ErrConnectionFault
	}
	s.conn = conn
	p.mu.Lock()
	p.stats.Recreated++
	p.mu.Unlock()
	return nil
}

// Close marks the pool closed and closes every idle connection. Leased
// connections are closed as they are released.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case s := <-p.idle:
			if s.conn != nil {
				s.conn.Close()
				s.conn = nil
			}
		default:
			return
		}
	}
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := p.stats
	stats.Idle = len(p.idle)
	return stats
}

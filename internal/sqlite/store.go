// Package sqlite implements the SQLite storage backend for stockroom:
// a fixed-size connection pool, a paged query executor with a result cache,
// and typed accessors for the products, invoices, and debits tables.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dukaforge/stockroom/internal/cache"
	"github.com/dukaforge/stockroom/internal/tasks"
	"github.com/dukaforge/stockroom/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// dbFileName is the SQLite database file inside DataDir.
const dbFileName = "stockroom.db"

// QueryStats counts paged query executions.
type QueryStats struct {
	Total  int64 `json:"total"`
	Failed int64 `json:"failed"`
	Slow   int64 `json:"slow"`
}

// Stats aggregates pool, cache, and query counters.
type Stats struct {
	Pool    PoolStats   `json:"pool"`
	Cache   cache.Stats `json:"cache"`
	Queries QueryStats  `json:"queries"`
}

// Store is the SQLite-backed data-access layer. It owns the connection
// pool, the result cache, and the background task manager. The store is
// not usable until Attach; after Detach all operations return
// types.ErrStoreDetached.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	pool     *Pool
	cache    *cache.ResultCache
	manager  *tasks.Manager
	logger   *zap.Logger

	slowThreshold time.Duration

	statsMu sync.Mutex
	queries QueryStats
}

// NewStore creates an unattached store. A nil logger is replaced with a
// no-op logger; call Attach with a Config to initialize.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Attach opens the database inside config.DataDir, applies the schema, and
// starts the connection pool and worker pool. Returns ErrAlreadyAttached if
// called while attached. Existing data is preserved; the schema is
// idempotent.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// The pool below hands out dedicated connections; cap the driver at the
	// same count so leases never compete with stray connections.
	poolSize := config.GetPoolSize()
	db.SetMaxOpenConns(poolSize)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	pool, err := newPool(ctx, db, poolSize, config.GetAcquireTimeout(), s.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("initialize pool: %w", err)
	}

	s.db = db
	s.pool = pool
	s.cache = cache.New(config.GetCacheCapacity(), config.GetCacheTTL())
	s.manager = tasks.NewManager(config.GetWorkers(), config.GetQueueDepth(), s.logger)
	s.config = config
	s.slowThreshold = config.GetSlowQueryThreshold()
	s.attached = true

	s.logger.Info("store attached",
		zap.String("db", dbPath),
		zap.Int("pool_size", poolSize),
		zap.Int("cache_capacity", config.GetCacheCapacity()),
		zap.Int("workers", config.GetWorkers()))
	return nil
}

// Detach shuts down the task manager, the pool, and the database handle.
// Idempotent: detaching a detached store succeeds. The store is marked
// detached before the shutdown so in-flight tasks that reach back into the
// store fail fast with ErrStoreDetached instead of blocking the teardown.
func (s *Store) Detach() error {
	s.mu.Lock()
	if !s.attached {
		s.mu.Unlock()
		return nil
	}
	manager, pool, resultCache, db := s.manager, s.pool, s.cache, s.db
	s.attached = false
	s.manager = nil
	s.pool = nil
	s.db = nil
	s.mu.Unlock()

	// Closing the manager waits for in-flight tasks. A running task may be
	// inside QueryPage waiting on s.mu, so no lock may be held here.
	manager.Close()
	pool.Close()
	resultCache.Clear()

	if err := db.Close(); err != nil {
		return err
	}
	s.logger.Info("store detached")
	return nil
}

// Submit enqueues a background task. See tasks.Manager.Submit.
func (s *Store) Submit(task tasks.Task) (*tasks.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	return s.manager.Submit(task)
}

// Cancel cancels a submitted task best-effort. See tasks.Manager.Cancel.
func (s *Store) Cancel(h *tasks.Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return false
	}
	return s.manager.Cancel(h)
}

// Dispatch delivers task callbacks on the calling goroutine until ctx is
// cancelled or the store detaches. The interactive loop runs this.
func (s *Store) Dispatch(ctx context.Context) {
	s.mu.RLock()
	manager := s.manager
	s.mu.RUnlock()

	if manager == nil {
		return
	}
	manager.Dispatch(ctx)
}

// InvalidateTable drops every cached page whose statement references the
// table. Write paths call this automatically; it is exported for callers
// that mutate the store out of band.
func (s *Store) InvalidateTable(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return 0
	}
	return s.cache.Invalidate(table)
}

// Stats returns a snapshot of pool, cache, and query counters.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return Stats{}, types.ErrStoreDetached
	}

	s.statsMu.Lock()
	queries := s.queries
	s.statsMu.Unlock()

	return Stats{
		Pool:    s.pool.Stats(),
		Cache:   s.cache.Stats(),
		Queries: queries,
	}, nil
}

// generateID generates a UUID v7 for entity IDs, falling back to v4 if the
// clock-based generator fails.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

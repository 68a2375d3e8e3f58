package types

import (
	"errors"
	"time"
)

// Config holds backend selection and tuning parameters for Store.Attach.
// All capability knobs live here; there are no process-wide mode switches.
// The zero value of every tuning field means "use the default".
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Connection pool.
	PoolSize          int `json:"pool_size,omitempty" yaml:"pool_size,omitempty"`
	AcquireTimeoutSec int `json:"acquire_timeout_sec,omitempty" yaml:"acquire_timeout_sec,omitempty"`

	// Result cache.
	CacheCapacity int `json:"cache_capacity,omitempty" yaml:"cache_capacity,omitempty"`
	// CacheTTLSec bounds entry lifetime. Zero disables expiry: entries live
	// until a write invalidates them or LRU eviction removes them.
	CacheTTLSec int `json:"cache_ttl_sec,omitempty" yaml:"cache_ttl_sec,omitempty"`

	// Background task manager.
	Workers    int `json:"workers,omitempty" yaml:"workers,omitempty"`
	QueueDepth int `json:"queue_depth,omitempty" yaml:"queue_depth,omitempty"`

	// SlowQueryMillis is the threshold above which a query is counted as
	// slow in Store statistics. Zero means the default.
	SlowQueryMillis int `json:"slow_query_millis,omitempty" yaml:"slow_query_millis,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Tuning defaults.
const (
	DefaultPoolSize       = 4
	DefaultAcquireTimeout = 5 * time.Second
	DefaultCacheCapacity  = 256
	DefaultWorkers        = 2
	DefaultQueueDepth     = 64
	DefaultSlowQuery      = time.Second
)

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrPoolSizeInvalid      = errors.New("pool size must not be negative")
	ErrCacheCapacityInvalid = errors.New("cache capacity must not be negative")
	ErrWorkersInvalid       = errors.New("worker count must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.PoolSize < 0 {
		return ErrPoolSizeInvalid
	}
	if c.CacheCapacity < 0 {
		return ErrCacheCapacityInvalid
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	return nil
}

// GetPoolSize returns the configured pool size or the default.
func (c Config) GetPoolSize() int {
	if c.PoolSize > 0 {
		return c.PoolSize
	}
	return DefaultPoolSize
}

// GetAcquireTimeout returns the configured acquire bound or the default.
func (c Config) GetAcquireTimeout() time.Duration {
	if c.AcquireTimeoutSec > 0 {
		return time.Duration(c.AcquireTimeoutSec) * time.Second
	}
	return DefaultAcquireTimeout
}

// GetCacheCapacity returns the configured cache capacity or the default.
func (c Config) GetCacheCapacity() int {
	if c.CacheCapacity > 0 {
		return c.CacheCapacity
	}
	return DefaultCacheCapacity
}

// GetCacheTTL returns the configured entry lifetime. Zero means no expiry.
func (c Config) GetCacheTTL() time.Duration {
	if c.CacheTTLSec > 0 {
		return time.Duration(c.CacheTTLSec) * time.Second
	}
	return 0
}

// GetWorkers returns the configured worker count or the default.
func (c Config) GetWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers
}

// GetQueueDepth returns the configured task queue depth or the default.
func (c Config) GetQueueDepth() int {
	if c.QueueDepth > 0 {
		return c.QueueDepth
	}
	return DefaultQueueDepth
}

// GetSlowQueryThreshold returns the slow-query threshold or the default.
func (c Config) GetSlowQueryThreshold() time.Duration {
	if c.SlowQueryMillis > 0 {
		return time.Duration(c.SlowQueryMillis) * time.Millisecond
	}
	return DefaultSlowQuery
}

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "valid sqlite config",
			config:  Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "empty backend",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "negative pool size",
			config:  Config{Backend: BackendSQLite, PoolSize: -1},
			wantErr: ErrPoolSizeInvalid,
		},
		{
			name:    "negative cache capacity",
			config:  Config{Backend: BackendSQLite, CacheCapacity: -1},
			wantErr: ErrCacheCapacityInvalid,
		},
		{
			name:    "negative workers",
			config:  Config{Backend: BackendSQLite, Workers: -1},
			wantErr: ErrWorkersInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config

	assert.Equal(t, DefaultPoolSize, c.GetPoolSize())
	assert.Equal(t, DefaultAcquireTimeout, c.GetAcquireTimeout())
	assert.Equal(t, DefaultCacheCapacity, c.GetCacheCapacity())
	assert.Equal(t, time.Duration(0), c.GetCacheTTL())
	assert.Equal(t, DefaultWorkers, c.GetWorkers())
	assert.Equal(t, DefaultQueueDepth, c.GetQueueDepth())
	assert.Equal(t, DefaultSlowQuery, c.GetSlowQueryThreshold())
}

func TestConfigOverrides(t *testing.T) {
	c := Config{
		Backend:           BackendSQLite,
		PoolSize:          8,
		AcquireTimeoutSec: 2,
		CacheCapacity:     10,
		CacheTTLSec:       30,
		Workers:           4,
		QueueDepth:        16,
		SlowQueryMillis:   250,
	}

	assert.Equal(t, 8, c.GetPoolSize())
	assert.Equal(t, 2*time.Second, c.GetAcquireTimeout())
	assert.Equal(t, 10, c.GetCacheCapacity())
	assert.Equal(t, 30*time.Second, c.GetCacheTTL())
	assert.Equal(t, 4, c.GetWorkers())
	assert.Equal(t, 16, c.GetQueueDepth())
	assert.Equal(t, 250*time.Millisecond, c.GetSlowQueryThreshold())
}

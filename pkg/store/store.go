// Package store provides the public factory for the SQLite-backed stockroom
// store, keeping implementation details internal.
package store

import (
	"go.uber.org/zap"

	"github.com/dukaforge/stockroom/internal/sqlite"
	"github.com/dukaforge/stockroom/pkg/types"
)

// New creates an unattached SQLite store. A nil logger disables logging.
// Call Attach with a Config to initialize.
//
// Example:
//
//	s := store.New(nil)
//	err := s.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".stockroom",
//	})
//	defer s.Detach()
func New(logger *zap.Logger) types.Store {
	return sqlite.NewStore(logger)
}

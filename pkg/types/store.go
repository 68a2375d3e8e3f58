package types

import "context"

// Store is the backend-agnostic surface of the data-access layer. Callers
// attach with a Config, page through query results, and detach when done.
// Background submission and the typed table accessors are part of the
// concrete backend, not this minimal contract.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// QueryPage returns one page of a statement's result set. Pages are
	// 1-based; invalid pagination fails with ErrInvalidArgument before any
	// I/O. Results are cached until a write invalidates them.
	QueryPage(ctx context.Context, statement string, params []any, page, pageSize int) (PagedResult, error)

	// Exec runs a write statement and invalidates cached pages for every
	// table it references. Returns the number of affected rows.
	Exec(ctx context.Context, statement string, params ...any) (int64, error)

	// InvalidateTable drops cached pages referencing the table, for writes
	// made out of band. Returns the number of entries removed.
	InvalidateTable(table string) int
}

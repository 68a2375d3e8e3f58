package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dukaforge/stockroom/internal/cache"
	"github.com/dukaforge/stockroom/pkg/types"
)

// QueryPage runs a bounded SELECT and returns one page of its result set.
// Pages are 1-based. Arguments are validated before any I/O; bad pagination
// fails with types.ErrInvalidArgument without touching the pool. A cached
// page is returned without database access. On a miss the executor leases a
// connection, runs a count query and the bounded page query, stores the page
// in the cache, and releases the connection on every exit path. Execution
// faults surface as *types.QueryError; raw driver errors never leak.
func (s *Store) QueryPage(ctx context.Context, statement string, params []any, page, pageSize int) (types.PagedResult, error) {
	if page < 1 || pageSize < 1 {
		return types.PagedResult{}, fmt.Errorf("%w: page=%d page_size=%d", types.ErrInvalidArgument, page, pageSize)
	}

	s.mu.RLock()
	if !s.attached {
		s.mu.RUnlock()
		return types.PagedResult{}, types.ErrStoreDetached
	}
	pool, resultCache := s.pool, s.cache
	s.mu.RUnlock()

	fp := cache.NewFingerprint(statement, params, page, pageSize)
	if result, ok := resultCache.Get(fp); ok {
		return result, nil
	}

	start := time.Now()
	result, err := s.queryPageMiss(ctx, pool, statement, params, page, pageSize)
	s.recordQuery(statement, time.Since(start), err)
	if err != nil {
		return types.PagedResult{}, err
	}

	// A write invalidation racing this put can leave one stale entry; the
	// next write to the same table clears it again.
	resultCache.Put(fp, result)
	return result, nil
}

// queryPageMiss executes the count and page queries on a leased connection.
func (s *Store) queryPageMiss(ctx context.Context, pool *Pool, statement string, params []any, page, pageSize int) (types.PagedResult, error) {
	lease, err := s.acquire(ctx, pool)
	if err != nil {
		return types.PagedResult{}, err
	}
	defer pool.Release(lease)

	trimmed := strings.TrimRight(strings.TrimSpace(statement), ";")

	var totalCount int
	countStmt := "SELECT COUNT(*) FROM (" + trimmed + ")"
	if err := lease.Conn().QueryRowContext(ctx, countStmt, params...).Scan(&totalCount); err != nil {
		return types.PagedResult{}, &types.QueryError{Statement: statement, Err: err}
	}

	offset := (page - 1) * pageSize
	pageStmt := trimmed + " LIMIT ? OFFSET ?"
	pageParams := append(append([]any{}, params...), pageSize, offset)

	rows, err := lease.Conn().QueryContext(ctx, pageStmt, pageParams...)
	if err != nil {
		return types.PagedResult{}, &types.QueryError{Statement: statement, Err: err}
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return types.PagedResult{}, &types.QueryError{Statement: statement, Err: err}
	}

	return types.PagedResult{
		Rows:       records,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Exec runs a write statement on a leased connection and invalidates every
// cached page referencing the tables the statement touches. Returns the
// number of affected rows.
func (s *Store) Exec(ctx context.Context, statement string, params ...any) (int64, error) {
	s.mu.RLock()
	if !s.attached {
		s.mu.RUnlock()
		return 0, types.ErrStoreDetached
	}
	pool, resultCache := s.pool, s.cache
	s.mu.RUnlock()

	lease, err := s.acquire(ctx, pool)
	if err != nil {
		return 0, err
	}
	defer pool.Release(lease)

	start := time.Now()
	res, err := lease.Conn().ExecContext(ctx, statement, params...)
	s.recordQuery(statement, time.Since(start), err)
	if err != nil {
		return 0, &types.QueryError{Statement: statement, Err: err}
	}

	for _, table := range cache.ExtractTables(statement) {
		resultCache.Invalidate(table)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, &types.QueryError{Statement: statement, Err: err}
	}
	return affected, nil
}

// acquire leases a connection, retrying once on a transient fault.
func (s *Store) acquire(ctx context.Context, pool *Pool) (*Lease, error) {
	lease, err := pool.Acquire(ctx)
	if errors.Is(err, types.ErrConnectionFault) {
		lease, err = pool.Acquire(ctx)
	}
	return lease, err
}

// recordQuery updates query counters and logs slow statements.
func (s *Store) recordQuery(statement string, elapsed time.Duration, err error) {
	s.statsMu.Lock()
	s.queries.Total++
	if err != nil {
		s.queries.Failed++
	}
	slow := elapsed > s.slowThreshold
	if slow {
		s.queries.Slow++
	}
	s.statsMu.Unlock()

	if slow {
		s.logger.Warn("slow query",
			zap.String("statement", statement),
			zap.Duration("elapsed", elapsed))
	}
}

// scanRows reads every row into a generic record keyed by column name.
// BLOB and TEXT columns arrive as []byte from the driver and are converted
// to string so records marshal cleanly.
func scanRows(rows *sql.Rows) ([]types.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []types.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(types.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

package sqlite

import (
	"context"

	"github.com/dukaforge/stockroom/internal/tasks"
	"github.com/dukaforge/stockroom/pkg/types"
)

// QueryPageAsync runs QueryPage on the worker pool and delivers the page (or
// a typed error) through the store's dispatch loop. Submission never blocks;
// onSuccess receives a types.PagedResult. The returned handle can cancel the
// query before it starts.
func (s *Store) QueryPageAsync(statement string, params []any, page, pageSize int,
	onSuccess func(types.PagedResult), onFailure func(error)) (*tasks.Handle, error) {

	// Reject bad pagination synchronously, before the task queue.
	if page < 1 || pageSize < 1 {
		return nil, types.ErrInvalidArgument
	}

	return s.Submit(tasks.Task{
		Op: func(ctx context.Context) (any, error) {
			return s.QueryPage(ctx, statement, params, page, pageSize)
		},
		OnSuccess: func(result any) {
			if onSuccess != nil {
				onSuccess(result.(types.PagedResult))
			}
		},
		OnFailure: onFailure,
	})
}

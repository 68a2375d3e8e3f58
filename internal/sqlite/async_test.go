package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/stockroom/pkg/types"
)

// dispatching starts the store's dispatch loop for the duration of the test.
func dispatching(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Dispatch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestQueryPageAsyncDeliversResult(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 13)
	dispatching(t, s)

	got := make(chan types.PagedResult, 1)
	_, err := s.QueryPageAsync("SELECT * FROM products ORDER BY name", nil, 2, 10,
		func(result types.PagedResult) { got <- result },
		func(err error) { t.Errorf("unexpected failure: %v", err) })
	require.NoError(t, err)

	select {
	case result := <-got:
		assert.Len(t, result.Rows, 3)
		assert.Equal(t, 13, result.TotalCount)
		assert.Equal(t, 2, result.TotalPages())
	case <-time.After(5 * time.Second):
		t.Fatal("async page never delivered")
	}
}

func TestQueryPageAsyncDeliversTypedError(t *testing.T) {
	s := setupStore(t)
	dispatching(t, s)

	got := make(chan error, 1)
	_, err := s.QueryPageAsync("SELECT * FROM no_such_table", nil, 1, 10,
		func(types.PagedResult) { t.Error("unexpected success") },
		func(err error) { got <- err })
	require.NoError(t, err)

	select {
	case err := <-got:
		assert.ErrorIs(t, err, types.ErrQueryFailed, "failures arrive typed, never as raw driver errors")
	case <-time.After(5 * time.Second):
		t.Fatal("async failure never delivered")
	}
}

func TestQueryPageAsyncValidatesSynchronously(t *testing.T) {
	s := setupStore(t)

	_, err := s.QueryPageAsync("SELECT * FROM products", nil, 0, 10, nil, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument, "bad pagination is rejected before submission")
}

func TestSubmitAfterDetach(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	require.NoError(t, s.Detach())

	_, err := s.QueryPageAsync("SELECT 1", nil, 1, 1, nil, nil)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

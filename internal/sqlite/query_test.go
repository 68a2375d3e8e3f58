package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/stockroom/pkg/types"
)

func TestQueryPageValidatesArguments(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{name: "zero page", page: 0, pageSize: 10},
		{name: "negative page", page: -1, pageSize: 10},
		{name: "zero page size", page: 1, pageSize: 0},
		{name: "negative page size", page: 1, pageSize: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := s.Stats()
			require.NoError(t, err)

			_, err = s.QueryPage(ctx, "SELECT * FROM products", nil, tt.page, tt.pageSize)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)

			// Rejected synchronously: no pool or cache activity.
			after, err := s.Stats()
			require.NoError(t, err)
			assert.Equal(t, before.Pool.Acquires, after.Pool.Acquires)
			assert.Equal(t, before.Cache.Misses, after.Cache.Misses)
		})
	}
}

func TestQueryPagePagination(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 13)
	ctx := context.Background()

	page1, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1.Rows, 10)
	assert.Equal(t, 13, page1.TotalCount)
	assert.Equal(t, 2, page1.TotalPages())
	assert.True(t, page1.HasNext())
	assert.False(t, page1.HasPrev())

	page2, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2.Rows, 3)
	assert.Equal(t, 13, page2.TotalCount)
	assert.False(t, page2.HasNext())
	assert.True(t, page2.HasPrev())

	// Page ordering is stable: no overlap between pages.
	assert.Equal(t, "item-000", page1.Rows[0]["name"])
	assert.Equal(t, "item-010", page2.Rows[0]["name"])

	// Past the last page: empty rows, same count.
	page3, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, page3.Rows)
	assert.Equal(t, 13, page3.TotalCount)
}

func TestQueryPageIdempotentWithoutWrites(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 5)
	ctx := context.Background()

	first, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 3)
	require.NoError(t, err)

	second, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical arguments with no writes return identical pages")

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Cache.Hits, "second call is served from cache")
}

func TestWriteInvalidatesCachedPages(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 5)
	ctx := context.Background()

	stale, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 5, stale.TotalCount)

	_, err = s.SaveProduct(ctx, &types.Product{Name: "item-new", SellingPrice: 1, Stock: 1})
	require.NoError(t, err)

	fresh, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 6, fresh.TotalCount, "page computed before the write is never served after it")
}

func TestWriteToOtherTableKeepsCache(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 3)
	ctx := context.Background()

	_, err := s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 10)
	require.NoError(t, err)

	_, err = s.SaveDebit(ctx, &types.Debit{Name: "customer", Amount: 10})
	require.NoError(t, err)

	_, err = s.QueryPage(ctx, "SELECT * FROM products ORDER BY name", nil, 1, 10)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Cache.Hits, "a debits write must not evict product pages")
}

func TestQueryPageWrapsExecutionFaults(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.QueryPage(ctx, "SELECT * FROM no_such_table", nil, 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrQueryFailed)

	var qerr *types.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.NotNil(t, qerr.Err, "original cause is preserved")

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Queries.Failed)
}

func TestExecInvalidatesReferencedTables(t *testing.T) {
	s := setupStore(t)
	seedProducts(t, s, 2)
	ctx := context.Background()

	_, err := s.QueryPage(ctx, "SELECT * FROM products", nil, 1, 10)
	require.NoError(t, err)

	affected, err := s.Exec(ctx, "UPDATE products SET stock = 0")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	result, err := s.QueryPage(ctx, "SELECT * FROM products", nil, 1, 10)
	require.NoError(t, err)
	for _, row := range result.Rows {
		assert.EqualValues(t, 0, row["stock"])
	}
}

func TestQueryPageParamsSplitCacheEntries(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.SaveProduct(ctx, &types.Product{Name: "cola", Category: "drinks", SellingPrice: 1, Stock: 1})
	require.NoError(t, err)
	_, err = s.SaveProduct(ctx, &types.Product{Name: "soap", Category: "hygiene", SellingPrice: 1, Stock: 1})
	require.NoError(t, err)

	drinks, err := s.QueryPage(ctx, "SELECT * FROM products WHERE category = ?", []any{"drinks"}, 1, 10)
	require.NoError(t, err)
	hygiene, err := s.QueryPage(ctx, "SELECT * FROM products WHERE category = ?", []any{"hygiene"}, 1, 10)
	require.NoError(t, err)

	require.Len(t, drinks.Rows, 1)
	require.Len(t, hygiene.Rows, 1)
	assert.NotEqual(t, drinks.Rows[0]["name"], hygiene.Rows[0]["name"])
}

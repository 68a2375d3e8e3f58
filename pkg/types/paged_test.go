package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagedResultTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int
		pageSize   int
		want       int
	}{
		{name: "exact multiple", totalCount: 20, pageSize: 10, want: 2},
		{name: "partial last page", totalCount: 13, pageSize: 10, want: 2},
		{name: "single short page", totalCount: 3, pageSize: 10, want: 1},
		{name: "empty result", totalCount: 0, pageSize: 10, want: 0},
		{name: "page size one", totalCount: 5, pageSize: 1, want: 5},
		{name: "zero page size yields one page", totalCount: 13, pageSize: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PagedResult{TotalCount: tt.totalCount, PageSize: tt.pageSize}
			assert.Equal(t, tt.want, p.TotalPages())
		})
	}
}

func TestPagedResultNavigation(t *testing.T) {
	p := PagedResult{TotalCount: 13, Page: 1, PageSize: 10}
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	last := PagedResult{TotalCount: 13, Page: 2, PageSize: 10}
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())
}

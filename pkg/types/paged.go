package types

// Row is a single result record keyed by column name.
type Row map[string]any

// PagedResult is an immutable slice of a larger result set. It is created
// once per query and never mutated; a later query supersedes it with a new
// value. TotalCount is the single authoritative count field.
type PagedResult struct {
	Rows       []Row `json:"rows"`
	TotalCount int   `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

// TotalPages returns ceil(TotalCount / PageSize). A non-positive page size
// yields 1 so that an empty result still renders as a single page.
func (p PagedResult) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether a page follows this one.
func (p PagedResult) HasNext() bool {
	return p.Page < p.TotalPages()
}

// HasPrev reports whether a page precedes this one.
func (p PagedResult) HasPrev() bool {
	return p.Page > 1
}

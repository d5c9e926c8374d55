package domain

// PaginatedResult wraps a page of items together with the pagination metadata
// callers need to iterate the full filtered set.
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResult builds a PaginatedResult, computing total_pages as
// ceil(total/pageSize). An empty set has zero pages.
func NewPaginatedResult[T any](items []T, total int64, page, pageSize int) PaginatedResult[T] {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

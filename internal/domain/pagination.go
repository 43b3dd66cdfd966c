package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Pages past the addressable range saturate at math.MaxInt.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Window slices items to the current page. A non-positive PageSize returns items unchanged.
func Window[T any](items []T, p PaginationParams) []T {
	if p.PageSize <= 0 {
		return items
	}
	off := p.Offset()
	if off >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.PageSize < end-off {
		end = off + p.PageSize
	}
	return items[off:end]
}

package utils

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
	MaxPage      = 100000
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination falls back to defaults for values below 1 and caps page at
// MaxPage and limit at MaxLimit, which keeps Offset from overflowing.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func (p Pagination) Meta(total int64) PageMeta {
	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

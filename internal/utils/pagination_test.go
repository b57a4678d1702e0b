package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 5}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 1, Limit: 5}, NewPagination(-3, -1))
	assert.Equal(t, Pagination{Page: 2, Limit: 10}, NewPagination(2, 10))
	assert.Equal(t, MaxLimit, NewPagination(1, 1000).Limit)
}

func TestPaginationMeta(t *testing.T) {
	p := NewPagination(2, 5)
	assert.Equal(t, 5, p.Offset())

	meta := p.Meta(12)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(12), meta.TotalItems)

	assert.Equal(t, 0, p.Meta(0).TotalPages)
	assert.Equal(t, 2, p.Meta(10).TotalPages)
}

func TestNewPaginationClampsHugePage(t *testing.T) {
	maxInt := int(^uint(0) >> 1)
	p := NewPagination(maxInt, MaxLimit)

	assert.Equal(t, MaxPage, p.Page)
	assert.Positive(t, p.Offset())
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.Offset())
}

package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery(t *testing.T) {
	q := PageQuery{}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, Limit: 5}
	assert.Equal(t, 10, q.Offset())
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(PageQuery{Page: 2, Limit: 10}, 21)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(21), meta.TotalItems)
	assert.Equal(t, 2, meta.CurrentPage)

	assert.Equal(t, 0, NewPaginationMeta(PageQuery{Page: 1, Limit: 10}, 0).TotalPages)
}

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("PST", 8*3600)

	got, err := ParseDateTime("2026-09-01T09:30", loc)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 30, 0, 0, loc), got)

	got, err = ParseDateTime("2026-09-01T01:30:00Z", loc)
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 9, 1, 9, 30, 0, 0, loc)))

	_, err = ParseDateTime("next tuesday", loc)
	assert.Error(t, err)
}

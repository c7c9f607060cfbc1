package dto

import (
	"fmt"
	"strings"
	"time"
)

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// Normalize fills zero values with defaults.
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func NewPaginationMeta(q PageQuery, total int64) PaginationMeta {
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return PaginationMeta{
		CurrentPage: q.Page,
		TotalPages:  pages,
		TotalItems:  total,
		Limit:       q.Limit,
	}
}

type Paginated[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// IDRequest binds a uuid path parameter named id.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PhilippineTime is the zone for date-times entered without an offset.
var PhilippineTime = time.FixedZone("PHT", 8*60*60)

// DateTimeLocal is the layout of an HTML datetime-local input.
const DateTimeLocal = "2006-01-02T15:04"

var dateTimeLayouts = []string{time.RFC3339, DateTimeLocal, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDateTime accepts RFC 3339 and the datetime-local input formats.
// Values without a zone are read in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", s)
}

package content

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default list configuration values
const (
	DefaultPageSize = 10
	DefaultPage     = 1
	MaxPageSize     = 100

	// DateLayout is the format of the startTime/endTime query parameters
	DateLayout = "2006-01-02"
)

// ListQuery configures a paginated list request
type ListQuery struct {
	// Keyword is matched case-insensitively against title, description, tags
	// and content. It is interpreted as a regular expression.
	Keyword string

	// StartTime and EndTime bound CreatedTime (inclusive, whole days).
	// The range only applies when both are set.
	StartTime string
	EndTime   string

	// Pagination (1-based page)
	Page int
	Size int
}

// ItemFilter is the store-level filter derived from a ListQuery
type ItemFilter struct {
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ListResult is one page of items plus the total number of matches
type ListResult struct {
	Items []Item
	Count int64
}

// ApplyDefaults fills in default values for unset fields
func (q *ListQuery) ApplyDefaults() {
	if q.Size == 0 {
		q.Size = DefaultPageSize
	}
	if q.Page == 0 {
		q.Page = DefaultPage
	}
}

// Validate checks that values are usable
func (q *ListQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Page, validation.Min(1)),
		validation.Field(&q.Size, validation.Min(1), validation.Max(MaxPageSize)),
		validation.Field(&q.StartTime, validation.Date(DateLayout)),
		validation.Field(&q.EndTime, validation.Date(DateLayout)),
	)
}

// Offset returns the number of items to skip
func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Size
}

// Filter converts the query into a store filter. Dates are interpreted in loc:
// the start date from 00:00:00, the end date up to 23:59:59.
func (q *ListQuery) Filter(loc *time.Location) (ItemFilter, error) {
	filter := ItemFilter{Keyword: q.Keyword}
	if q.StartTime == "" || q.EndTime == "" {
		return filter, nil
	}

	from, err := time.ParseInLocation(DateLayout, q.StartTime, loc)
	if err != nil {
		return filter, fmt.Errorf("parse startTime: %w", err)
	}
	day, err := time.ParseInLocation(DateLayout, q.EndTime, loc)
	if err != nil {
		return filter, fmt.Errorf("parse endTime: %w", err)
	}
	to := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	filter.CreatedFrom = &from
	filter.CreatedTo = &to
	return filter, nil
}

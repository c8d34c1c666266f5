package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SortField names the column a task listing is ordered by.
type SortField int

const (
	// SortNatural is insertion order. It is used when no sort was requested
	// and when the requested field is not recognized.
	SortNatural SortField = iota
	SortCreatedAt
	SortUpdatedAt
)

// String returns the API name of the field.
func (f SortField) String() string {
	switch f {
	case SortCreatedAt:
		return "createdAt"
	case SortUpdatedAt:
		return "updatedAt"
	default:
		return "natural"
	}
}

// TaskSort is an ordering for task listings.
type TaskSort struct {
	Field      SortField
	Descending bool
}

// TaskQuery filters and pages a listing of one owner's tasks.
// A zero Limit means no limit.
type TaskQuery struct {
	Completed *bool
	Limit     int
	Skip      int
	Sort      TaskSort
}

var sortFields = map[string]SortField{
	"createdAt":  SortCreatedAt,
	"created_at": SortCreatedAt,
	"updatedAt":  SortUpdatedAt,
	"updated_at": SortUpdatedAt,
}

// ParseTaskQuery reads completed, limit, skip and sortBy from query values.
//
// completed must be a boolean, limit and skip non-negative integers.
// sortBy has the form field:direction; direction "desc" sorts descending and
// any other value ascending. An unknown field falls back to SortNatural.
func ParseTaskQuery(values url.Values) (TaskQuery, error) {
	var q TaskQuery

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return TaskQuery{}, NewValidationError("completed", "must be true or false", ErrInvalidQuery)
		}
		q.Completed = &completed
	}

	var err error
	if q.Limit, err = parseNonNegative(values, "limit"); err != nil {
		return TaskQuery{}, err
	}
	if q.Skip, err = parseNonNegative(values, "skip"); err != nil {
		return TaskQuery{}, err
	}

	if raw := values.Get("sortBy"); raw != "" {
		q.Sort = parseSort(raw)
	}

	return q, nil
}

func parseNonNegative(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewValidationError(key, "must be a non-negative integer", ErrInvalidQuery)
	}
	return n, nil
}

func parseSort(raw string) TaskSort {
	name, dir, _ := strings.Cut(raw, ":")
	field, ok := sortFields[name]
	if !ok {
		return TaskSort{Field: SortNatural}
	}
	return TaskSort{
		Field:      field,
		Descending: dir == "desc",
	}
}

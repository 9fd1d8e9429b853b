package domain

import (
	"errors"
	"strings"
)

// OrderStatus is assigned by the server. The set of values is open: unknown
// statuses are kept as they are and only the well-known ones are named here.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) String() string {
	return string(s)
}

// StatusFilter selects which orders of a loaded list are shown.
type StatusFilter string

// remember to add new filters to the validStatusFilters map
const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterCompleted StatusFilter = "completed"
	StatusFilterPending   StatusFilter = "pending"
)

var validStatusFilters = map[StatusFilter]struct{}{
	StatusFilterAll:       {},
	StatusFilterCompleted: {},
	StatusFilterPending:   {},
}

func ToStatusFilter(s string) (StatusFilter, error) {
	filter := StatusFilter(strings.ToLower(strings.TrimSpace(s)))
	if filter == "" {
		return StatusFilterAll, nil
	}
	if _, ok := validStatusFilters[filter]; ok {
		return filter, nil
	}

	return "", errors.New("invalid status filter")
}

// StatusFilters lists the filters in display order.
func StatusFilters() []StatusFilter {
	return []StatusFilter{StatusFilterAll, StatusFilterCompleted, StatusFilterPending}
}

// Match reports whether an order with the given status passes the filter.
// Status comparison ignores case.
func (f StatusFilter) Match(status OrderStatus) bool {
	if f == StatusFilterAll || f == "" {
		return true
	}
	return strings.EqualFold(string(f), string(status))
}

// Package filter derives list views from fetched snapshots.
package filter

import (
	"net/url"
	"strings"
)

// StatusAll matches every item. The empty status means the same.
const StatusAll = "all"

type Searchable interface {
	SearchFields() []string
	FilterStatus() string
}

type Criteria struct {
	Text   string
	Status string
}

// FromQuery reads criteria from ?q=&status=.
func FromQuery(q url.Values) Criteria {
	return Criteria{
		Text:   q.Get("q"),
		Status: q.Get("status"),
	}
}

func (c Criteria) Match(item Searchable) bool {
	if c.Status != "" && c.Status != StatusAll && item.FilterStatus() != c.Status {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(c.Text))
	if text == "" {
		return true
	}
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// Apply returns the items matching c in their original order. items is
// never modified and the result never shares its backing array.
func Apply[T Searchable](items []T, c Criteria) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if c.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Count returns how many items have status. StatusAll counts everything.
func Count[T Searchable](items []T, status string) int {
	if status == "" || status == StatusAll {
		return len(items)
	}
	n := 0
	for _, item := range items {
		if item.FilterStatus() == status {
			n++
		}
	}
	return n
}

// Package search narrows the event catalog down to the events matching a
// set of predicates. It is a strict filter: no ranking, no pagination, and
// the input order is always preserved.
package search

import (
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/catalog"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Criteria are the predicates of a search. Zero values match everything.
type Criteria struct {
	Query    string
	Category string
	Location string

	// From, To, MinPrice and MaxPrice are accepted from the search form but
	// are not applied to the result set.
	From     *model.Date
	To       *model.Date
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Filter returns the events matching every supplied predicate, in input order.
func Filter(events []model.Event, c Criteria) []model.Event {
	m := newMatcher(c)
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if m.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Related returns up to limit events sharing e's category, excluding e.
func Related(events []model.Event, e model.Event, limit int) []model.Event {
	out := make([]model.Event, 0, limit)
	for _, other := range events {
		if len(out) == limit {
			break
		}
		if other.ID != e.ID && other.Category == e.Category {
			out = append(out, other)
		}
	}
	return out
}

type matcher struct {
	fold     cases.Caser
	query    string
	category string
	location string
}

// cases.Caser is stateful, so every Filter call gets its own.
func newMatcher(c Criteria) *matcher {
	m := &matcher{fold: cases.Fold(), category: c.Category}
	if m.category == catalog.AllCategories {
		m.category = ""
	}
	if c.Query != "" {
		m.query = m.fold.String(c.Query)
	}
	if c.Location != "" {
		m.location = m.fold.String(c.Location)
	}
	return m
}

func (m *matcher) match(e model.Event) bool {
	if m.query != "" &&
		!strings.Contains(m.fold.String(e.Title), m.query) &&
		!strings.Contains(m.fold.String(e.Description), m.query) {
		return false
	}
	if m.category != "" && e.Category != m.category {
		return false
	}
	if m.location != "" && !strings.Contains(m.fold.String(e.Location), m.location) {
		return false
	}
	return true
}

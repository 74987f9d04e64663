// Package listing filters and orders expense lists the way the expense
// views do, on top of the store's date-ordered output.
package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"finance-tracker/internal/domain"

	"github.com/jinzhu/now"
)

const (
	SortDateDesc   = "date-desc"
	SortDateAsc    = "date-asc"
	SortAmountDesc = "amount-desc"
	SortAmountAsc  = "amount-asc"
)

// Query is empty when no filter was asked for; Apply then returns the
// list unchanged.
type Query struct {
	Category string
	From     time.Time // inclusive, start of day UTC
	To       time.Time // inclusive, end of day UTC
	Sort     string
}

// FieldError names the query parameter that failed to parse.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Parse reads the category, from, to and sort parameters. "all" as a
// category means no category filter. Dates are YYYY-MM-DD or RFC 3339.
func Parse(category, from, to, sort string) (Query, error) {
	var q Query

	category = strings.TrimSpace(category)
	if category != "" && !strings.EqualFold(category, "all") {
		q.Category = category
	}

	if from = strings.TrimSpace(from); from != "" {
		t, err := parseDay(from)
		if err != nil {
			return Query{}, &FieldError{Field: "from", Message: "from must be a date (YYYY-MM-DD)"}
		}
		q.From = now.With(t).BeginningOfDay()
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := parseDay(to)
		if err != nil {
			return Query{}, &FieldError{Field: "to", Message: "to must be a date (YYYY-MM-DD)"}
		}
		q.To = now.With(t).EndOfDay()
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return Query{}, &FieldError{Field: "to", Message: "to must not be before from"}
	}

	switch sort = strings.ToLower(strings.TrimSpace(sort)); sort {
	case "", SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		q.Sort = sort
	default:
		return Query{}, &FieldError{Field: "sort", Message: fmt.Sprintf(
			"sort must be one of %s, %s, %s, %s", SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc)}
	}
	return q, nil
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Apply returns a new slice; ties keep ascending id order.
func (q Query) Apply(expenses []domain.Expense) []domain.Expense {
	out := make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		d := e.Date.UTC()
		if !q.From.IsZero() && d.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && d.After(q.To) {
			continue
		}
		out = append(out, e)
	}

	var by func(a, b domain.Expense) int
	switch q.Sort {
	case SortDateAsc:
		by = func(a, b domain.Expense) int { return a.Date.Compare(b.Date) }
	case SortDateDesc:
		by = func(a, b domain.Expense) int { return b.Date.Compare(a.Date) }
	case SortAmountAsc:
		by = func(a, b domain.Expense) int { return a.Amount.Cmp(b.Amount) }
	case SortAmountDesc:
		by = func(a, b domain.Expense) int { return b.Amount.Cmp(a.Amount) }
	default:
		return out
	}
	slices.SortFunc(out, func(a, b domain.Expense) int {
		if c := by(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Package summary builds dashboard aggregates over expenses and salaries.
package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/domain"

	"github.com/jinzhu/now"
)

// Period selects records by month and/or year. Zero values mean "all".
type Period struct {
	Month string
	Year  int
}

// ParsePeriod accepts the query forms used by the dashboards: an empty
// string or "all" selects everything.
func ParsePeriod(month, year string) (Period, error) {
	var p Period

	month = strings.TrimSpace(month)
	if month != "" && !strings.EqualFold(month, "all") {
		canonical, ok := domain.CanonicalMonth(month)
		if !ok {
			return Period{}, fmt.Errorf("month must be a month name (January to December)")
		}
		p.Month = canonical
	}

	year = strings.TrimSpace(year)
	if year != "" && !strings.EqualFold(year, "all") {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1900 || y > 9999 {
			return Period{}, fmt.Errorf("year must be between 1900 and 9999")
		}
		p.Year = y
	}
	return p, nil
}

// bounds returns the [from, to] window when the period maps onto one
// contiguous range. A month without a year has no single window.
func (p Period) bounds() (from, to time.Time, ok bool) {
	switch {
	case p.Month != "" && p.Year != 0:
		m, _ := domain.MonthNumber(p.Month)
		t := now.With(time.Date(p.Year, m, 1, 0, 0, 0, 0, time.UTC))
		return t.BeginningOfMonth(), t.EndOfMonth(), true
	case p.Year != 0:
		t := now.With(time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC))
		return t.BeginningOfYear(), t.EndOfYear(), true
	}
	return time.Time{}, time.Time{}, false
}

func (p Period) includesDate(d time.Time) bool {
	d = d.UTC()
	if from, to, ok := p.bounds(); ok {
		return !d.Before(from) && !d.After(to)
	}
	if p.Month != "" {
		m, _ := domain.MonthNumber(p.Month)
		return d.Month() == m
	}
	return true
}

func (p Period) includesSalary(s domain.Salary) bool {
	return (p.Month == "" || s.Month == p.Month) && (p.Year == 0 || s.Year == p.Year)
}

type CategoryTotal struct {
	Category string        `json:"category"`
	Amount   domain.Amount `json:"amount"`
}

type Summary struct {
	Collection    domain.ExpenseCollection `json:"collection"`
	Month         string                   `json:"month"`
	Year          string                   `json:"year"`
	TotalIncome   domain.Amount            `json:"totalIncome"`
	TotalExpenses domain.Amount            `json:"totalExpenses"`
	Savings       domain.Amount            `json:"savings"`
	ExpenseCount  int                      `json:"expenseCount"`
	SalaryCount   int                      `json:"salaryCount"`
	ByCategory    []CategoryTotal          `json:"byCategory"`
}

// Compute sums income and expenses inside the period. Categories are listed
// in the order they are first met in expenses.
func Compute(coll domain.ExpenseCollection, p Period, expenses []domain.Expense, salaries []domain.Salary) Summary {
	s := Summary{
		Collection: coll,
		Month:      "all",
		Year:       "all",
		ByCategory: []CategoryTotal{},
	}
	if p.Month != "" {
		s.Month = p.Month
	}
	if p.Year != 0 {
		s.Year = strconv.Itoa(p.Year)
	}

	index := map[string]int{}
	for _, e := range expenses {
		if !p.includesDate(e.Date) {
			continue
		}
		s.ExpenseCount++
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)

		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
	}

	for _, sal := range salaries {
		if !p.includesSalary(sal) {
			continue
		}
		s.SalaryCount++
		s.TotalIncome = s.TotalIncome.Add(sal.Amount)
	}

	s.Savings = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

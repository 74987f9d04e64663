package summary

import (
	"encoding/json"
	"testing"
	"time"

	"finance-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(category, amount string, date time.Time) domain.Expense {
	return domain.Expense{Category: category, Amount: domain.MustAmount(amount), Date: date}
}

func salary(month string, year int, amount string) domain.Salary {
	return domain.Salary{Month: month, Year: year, Amount: domain.MustAmount(amount)}
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

var (
	expenses = []domain.Expense{
		expense("Food", "10.10", at(2024, time.March, 1)),
		expense("Rent", "1000", at(2024, time.March, 2)),
		expense("Food", "5.05", at(2024, time.March, 31)),
		expense("Food", "7", at(2024, time.April, 1)),
		expense("Travel", "300", at(2023, time.March, 15)),
	}
	salaries = []domain.Salary{
		salary("March", 2024, "5000"),
		salary("April", 2024, "5100"),
		salary("March", 2023, "4000"),
	}
)

func TestComputeMonthAndYear(t *testing.T) {
	s := Compute(domain.Expenses, Period{Month: "March", Year: 2024}, expenses, salaries)

	assert.Equal(t, "March", s.Month)
	assert.Equal(t, "2024", s.Year)
	assert.Equal(t, 3, s.ExpenseCount)
	assert.Equal(t, 1, s.SalaryCount)
	assert.Equal(t, "1015.15", s.TotalExpenses.String())
	assert.Equal(t, "5000.00", s.TotalIncome.String())
	assert.Equal(t, "3984.85", s.Savings.String())

	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Food", s.ByCategory[0].Category)
	assert.Equal(t, "15.15", s.ByCategory[0].Amount.String())
	assert.Equal(t, "Rent", s.ByCategory[1].Category)
}

func TestComputeMonthAcrossYears(t *testing.T) {
	s := Compute(domain.Expenses, Period{Month: "March"}, expenses, salaries)

	assert.Equal(t, "all", s.Year)
	assert.Equal(t, 4, s.ExpenseCount)
	assert.Equal(t, 2, s.SalaryCount)
	assert.Equal(t, "9000.00", s.TotalIncome.String())
}

func TestComputeYearOnly(t *testing.T) {
	s := Compute(domain.Expenses, Period{Year: 2023}, expenses, salaries)

	assert.Equal(t, "all", s.Month)
	assert.Equal(t, 1, s.ExpenseCount)
	assert.Equal(t, "300.00", s.TotalExpenses.String())
	assert.Equal(t, "3700.00", s.Savings.String())
}

func TestComputeEverythingAndNegativeSavings(t *testing.T) {
	s := Compute(domain.IndianExpenses, Period{}, expenses, nil)

	assert.Equal(t, 5, s.ExpenseCount)
	assert.Equal(t, "0.00", s.TotalIncome.String())
	assert.Equal(t, "-1322.15", s.Savings.String())
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(domain.Expenses, Period{}, nil, nil)

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"collection": "expenses", "month": "all", "year": "all",
		"totalIncome": "0.00", "totalExpenses": "0.00", "savings": "0.00",
		"expenseCount": 0, "salaryCount": 0, "byCategory": []
	}`, string(body))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("march", "2024")
	require.NoError(t, err)
	assert.Equal(t, Period{Month: "March", Year: 2024}, p)

	p, err = ParsePeriod("all", "")
	require.NoError(t, err)
	assert.Equal(t, Period{}, p)

	_, err = ParsePeriod("Smarch", "")
	assert.Error(t, err)

	_, err = ParsePeriod("", "24a")
	assert.Error(t, err)
}

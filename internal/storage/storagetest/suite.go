// Package storagetest holds the contract tests every storage backend must pass.
package storagetest

import (
	"context"
	"sync"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/stretchr/testify/suite"
)

// Suite runs against a fresh, empty store built by NewStorage before each test.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	store storage.Storage
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStorage()
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

func strPtr(v string) *string { return &v }

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newExpense(category, amount string, date time.Time) domain.NewExpense {
	return domain.NewExpense{Category: category, Amount: domain.MustAmount(amount), Date: date}
}

func (s *Suite) TestCreateAssignsIDAndCreatedAt() {
	before := time.Now().UTC().Add(-time.Second)

	first, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "42.50", day(1)))
	s.Require().NoError(err)
	second, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Rent", "1000", day(2)))
	s.Require().NoError(err)

	s.Greater(first.ID, int64(0))
	s.Greater(second.ID, first.ID)
	s.False(first.CreatedAt.Before(before))
	s.Equal("42.50", first.Amount.String())
	s.Equal("Food", first.Category)
	s.Nil(first.Description)
	s.True(first.Date.Equal(day(1)))
}

func (s *Suite) TestCreateThenGetRoundTrip() {
	created, err := s.store.CreateExpense(s.ctx, domain.IndianExpenses, domain.NewExpense{
		Category:    "Groceries",
		Description: strPtr(""),
		Amount:      domain.MustAmount("199.99"),
		Date:        day(5),
	})
	s.Require().NoError(err)

	got, err := s.store.GetExpense(s.ctx, domain.IndianExpenses, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(*created, *got)
	s.Require().NotNil(got.Description)
	s.Equal("", *got.Description)
}

func (s *Suite) TestCollectionsAreIndependent() {
	e, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "1", day(1)))
	s.Require().NoError(err)

	got, err := s.store.GetExpense(s.ctx, domain.IndianExpenses, e.ID)
	s.Require().NoError(err)
	s.Nil(got)

	list, err := s.store.ListExpenses(s.ctx, domain.IndianExpenses)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *Suite) TestListOrderedByDate() {
	for _, in := range []domain.NewExpense{
		s.newExpense("C", "3", day(3)),
		s.newExpense("A", "1", day(1)),
		s.newExpense("B", "2", day(2)),
		s.newExpense("A2", "1", day(1)),
	} {
		_, err := s.store.CreateExpense(s.ctx, domain.Expenses, in)
		s.Require().NoError(err)
	}

	list, err := s.store.ListExpenses(s.ctx, domain.Expenses)
	s.Require().NoError(err)
	s.Require().Len(list, 4)

	var categories []string
	for _, e := range list {
		categories = append(categories, e.Category)
	}
	s.Equal([]string{"A", "A2", "B", "C"}, categories)
}

func (s *Suite) TestGetUnknownIsAbsent() {
	got, err := s.store.GetExpense(s.ctx, domain.Expenses, 999999)
	s.Require().NoError(err)
	s.Nil(got)

	sal, err := s.store.GetSalary(s.ctx, 999999)
	s.Require().NoError(err)
	s.Nil(sal)
}

func (s *Suite) TestDeleteTwice() {
	e, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "5", day(1)))
	s.Require().NoError(err)

	ok, err := s.store.DeleteExpense(s.ctx, domain.Expenses, e.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.DeleteExpense(s.ctx, domain.Expenses, e.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestIDsNotReusedAfterDelete() {
	first, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "5", day(1)))
	s.Require().NoError(err)
	_, err = s.store.DeleteExpense(s.ctx, domain.Expenses, first.ID)
	s.Require().NoError(err)

	second, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "5", day(1)))
	s.Require().NoError(err)
	s.Greater(second.ID, first.ID)
}

func (s *Suite) TestSalaryPartialUpdate() {
	created, err := s.store.CreateSalary(s.ctx, domain.NewSalary{
		Amount: domain.MustAmount("3000"),
		Month:  "March",
		Year:   2024,
		Notes:  strPtr("base"),
		Date:   day(1),
	})
	s.Require().NoError(err)

	amount := domain.MustAmount("5000")
	updated, err := s.store.UpdateSalary(s.ctx, created.ID, domain.SalaryPatch{Amount: &amount})
	s.Require().NoError(err)
	s.Require().NotNil(updated)

	s.Equal("5000.00", updated.Amount.String())
	s.Equal("March", updated.Month)
	s.Equal(2024, updated.Year)
	s.Require().NotNil(updated.Notes)
	s.Equal("base", *updated.Notes)
	s.Equal(created.ID, updated.ID)
	s.True(created.CreatedAt.Equal(updated.CreatedAt))

	got, err := s.store.GetSalary(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(*updated, *got)
}

func (s *Suite) TestSalaryUpdateClearsNotesAndMovesDate() {
	created, err := s.store.CreateSalary(s.ctx, domain.NewSalary{
		Amount: domain.MustAmount("3000"), Month: "March", Year: 2024, Notes: strPtr("x"), Date: day(1),
	})
	s.Require().NoError(err)

	month := "April"
	date := day(20)
	updated, err := s.store.UpdateSalary(s.ctx, created.ID, domain.SalaryPatch{Month: &month, NotesSet: true, Date: &date})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Nil(updated.Notes)
	s.Equal("April", updated.Month)
	s.True(updated.Date.Equal(date))
}

func (s *Suite) TestSalaryEmptyPatchReturnsRecord() {
	created, err := s.store.CreateSalary(s.ctx, domain.NewSalary{
		Amount: domain.MustAmount("10"), Month: "May", Year: 2023, Date: day(1),
	})
	s.Require().NoError(err)

	got, err := s.store.UpdateSalary(s.ctx, created.ID, domain.SalaryPatch{})
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(*created, *got)
}

func (s *Suite) TestSalaryUpdateUnknown() {
	amount := domain.MustAmount("1")
	got, err := s.store.UpdateSalary(s.ctx, 424242, domain.SalaryPatch{Amount: &amount})
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *Suite) TestSalaryListAndDelete() {
	for _, m := range []string{"February", "January"} {
		d := day(2)
		if m == "January" {
			d = day(1)
		}
		_, err := s.store.CreateSalary(s.ctx, domain.NewSalary{Amount: domain.MustAmount("1"), Month: m, Year: 2024, Date: d})
		s.Require().NoError(err)
	}

	list, err := s.store.ListSalaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("January", list[0].Month)

	ok, err := s.store.DeleteSalary(s.ctx, list[0].ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.DeleteSalary(s.ctx, list[0].ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestConcurrentCreatesGetUniqueIDs() {
	const n = 20
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := s.store.CreateExpense(s.ctx, domain.Expenses, s.newExpense("Food", "1", day(1)))
			if err != nil {
				return
			}
			mu.Lock()
			ids[e.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	s.Len(ids, n)
}

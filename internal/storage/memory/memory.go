// internal/storage/memory/memory.go
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"finance-tracker/internal/domain"
)

type expenseTable struct {
	nextID int64
	rows   map[int64]domain.Expense
}

// Storage keeps every collection in process. One mutex guards both the maps
// and the id counters, so an id is assigned and inserted in one step.
type Storage struct {
	mu         sync.Mutex
	now        func() time.Time
	expenses   map[domain.ExpenseCollection]*expenseTable
	salaries   map[int64]domain.Salary
	nextSalary int64
}

func NewStorage() *Storage {
	return &Storage{
		now: func() time.Time { return time.Now().UTC() },
		expenses: map[domain.ExpenseCollection]*expenseTable{
			domain.Expenses:       {rows: map[int64]domain.Expense{}},
			domain.IndianExpenses: {rows: map[int64]domain.Expense{}},
		},
		salaries: map[int64]domain.Salary{},
	}
}

func (s *Storage) table(coll domain.ExpenseCollection) *expenseTable {
	if t, ok := s.expenses[coll]; ok {
		return t
	}
	return s.expenses[domain.Expenses]
}

func (s *Storage) ListExpenses(_ context.Context, coll domain.ExpenseCollection) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Expense, 0, len(s.table(coll).rows))
	for _, e := range s.table(coll).rows {
		out = append(out, cloneExpense(e))
	}
	slices.SortFunc(out, func(a, b domain.Expense) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Storage) GetExpense(_ context.Context, coll domain.ExpenseCollection, id int64) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.table(coll).rows[id]
	if !ok {
		return nil, nil
	}
	e = cloneExpense(e)
	return &e, nil
}

func (s *Storage) CreateExpense(_ context.Context, coll domain.ExpenseCollection, in domain.NewExpense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(coll)
	t.nextID++
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	e := domain.Expense{
		ID:          t.nextID,
		Category:    in.Category,
		Description: cloneString(in.Description),
		Amount:      in.Amount,
		Date:        date.UTC(),
		CreatedAt:   now,
	}
	t.rows[e.ID] = e
	e = cloneExpense(e)
	return &e, nil
}

func (s *Storage) DeleteExpense(_ context.Context, coll domain.ExpenseCollection, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(coll)
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

func (s *Storage) ListSalaries(_ context.Context) ([]domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Salary, 0, len(s.salaries))
	for _, sal := range s.salaries {
		out = append(out, cloneSalary(sal))
	}
	slices.SortFunc(out, func(a, b domain.Salary) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Storage) GetSalary(_ context.Context, id int64) (*domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sal, ok := s.salaries[id]
	if !ok {
		return nil, nil
	}
	sal = cloneSalary(sal)
	return &sal, nil
}

func (s *Storage) CreateSalary(_ context.Context, in domain.NewSalary) (*domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSalary++
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	sal := domain.Salary{
		ID:        s.nextSalary,
		Amount:    in.Amount,
		Month:     in.Month,
		Year:      in.Year,
		Notes:     cloneString(in.Notes),
		Date:      date.UTC(),
		CreatedAt: now,
	}
	s.salaries[sal.ID] = sal
	sal = cloneSalary(sal)
	return &sal, nil
}

func (s *Storage) UpdateSalary(_ context.Context, id int64, patch domain.SalaryPatch) (*domain.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sal, ok := s.salaries[id]
	if !ok {
		return nil, nil
	}
	patch.Notes = cloneString(patch.Notes)
	sal = patch.Apply(sal)
	sal.Date = sal.Date.UTC()
	s.salaries[id] = sal
	sal = cloneSalary(sal)
	return &sal, nil
}

func (s *Storage) DeleteSalary(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salaries[id]; !ok {
		return false, nil
	}
	delete(s.salaries, id)
	return true, nil
}

func (s *Storage) Close() error { return nil }

// записи отдаём копиями, чтобы вызывающий код не мог менять состояние хранилища
func cloneExpense(e domain.Expense) domain.Expense {
	e.Description = cloneString(e.Description)
	return e
}

func cloneSalary(s domain.Salary) domain.Salary {
	s.Notes = cloneString(s.Notes)
	return s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

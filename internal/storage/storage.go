// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/domain"
)

// ExpenseStorage serves both expense collections; they share one schema.
// Get returns nil, nil for an unknown id and Delete returns false, nil.
type ExpenseStorage interface {
	ListExpenses(ctx context.Context, coll domain.ExpenseCollection) ([]domain.Expense, error)
	GetExpense(ctx context.Context, coll domain.ExpenseCollection, id int64) (*domain.Expense, error)
	CreateExpense(ctx context.Context, coll domain.ExpenseCollection, in domain.NewExpense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, coll domain.ExpenseCollection, id int64) (bool, error)
}

type SalaryStorage interface {
	ListSalaries(ctx context.Context) ([]domain.Salary, error)
	GetSalary(ctx context.Context, id int64) (*domain.Salary, error)
	CreateSalary(ctx context.Context, in domain.NewSalary) (*domain.Salary, error)
	UpdateSalary(ctx context.Context, id int64, patch domain.SalaryPatch) (*domain.Salary, error)
	DeleteSalary(ctx context.Context, id int64) (bool, error)
}

type Storage interface {
	ExpenseStorage
	SalaryStorage
	Close() error
}

// Error wraps an infrastructure failure of a backing store.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

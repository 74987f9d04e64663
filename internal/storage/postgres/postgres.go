// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// amount читаем как text, чтобы не терять точность numeric(10,2)
var (
	expenseColumns = []string{"id", "category", "description", "amount::text", "date", "created_at"}
	salaryColumns  = []string{"id", "amount::text", "month", "year", "notes", "date", "created_at"}
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

// === ExpenseStorage ===

func (s *Storage) ListExpenses(ctx context.Context, coll domain.ExpenseCollection) ([]domain.Expense, error) {
	query, args, err := psql.Select(expenseColumns...).
		From(coll.Table()).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build list expenses", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap("list expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storage.Wrap("scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list expenses", err)
	}
	return expenses, nil
}

func (s *Storage) GetExpense(ctx context.Context, coll domain.ExpenseCollection, id int64) (*domain.Expense, error) {
	query, args, err := psql.Select(expenseColumns...).
		From(coll.Table()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build get expense", err)
	}

	e, err := scanExpense(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Wrap("get expense", err)
	}
	return &e, nil
}

func (s *Storage) CreateExpense(ctx context.Context, coll domain.ExpenseCollection, in domain.NewExpense) (*domain.Expense, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	query, args, err := psql.Insert(coll.Table()).
		Columns("category", "description", "amount", "date").
		Values(in.Category, in.Description, in.Amount.String(), date).
		Suffix("RETURNING id, category, description, amount::text, date, created_at").
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build create expense", err)
	}

	e, err := scanExpense(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, storage.Wrap("create expense", err)
	}

	slog.Debug("Expense created", "collection", coll, "id", e.ID)
	return &e, nil
}

func (s *Storage) DeleteExpense(ctx context.Context, coll domain.ExpenseCollection, id int64) (bool, error) {
	query, args, err := psql.Delete(coll.Table()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, storage.Wrap("build delete expense", err)
	}

	result, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, storage.Wrap("delete expense", err)
	}
	return result.RowsAffected() > 0, nil
}

// === SalaryStorage ===

func (s *Storage) ListSalaries(ctx context.Context) ([]domain.Salary, error) {
	query, args, err := psql.Select(salaryColumns...).
		From("salaries").
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build list salaries", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap("list salaries", err)
	}
	defer rows.Close()

	salaries := []domain.Salary{}
	for rows.Next() {
		sal, err := scanSalary(rows)
		if err != nil {
			return nil, storage.Wrap("scan salary", err)
		}
		salaries = append(salaries, sal)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list salaries", err)
	}
	return salaries, nil
}

func (s *Storage) GetSalary(ctx context.Context, id int64) (*domain.Salary, error) {
	query, args, err := psql.Select(salaryColumns...).
		From("salaries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build get salary", err)
	}

	sal, err := scanSalary(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Wrap("get salary", err)
	}
	return &sal, nil
}

func (s *Storage) CreateSalary(ctx context.Context, in domain.NewSalary) (*domain.Salary, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	query, args, err := psql.Insert("salaries").
		Columns("amount", "month", "year", "notes", "date").
		Values(in.Amount.String(), in.Month, in.Year, in.Notes, date).
		Suffix("RETURNING id, amount::text, month, year, notes, date, created_at").
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build create salary", err)
	}

	sal, err := scanSalary(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, storage.Wrap("create salary", err)
	}

	slog.Debug("Salary created", "id", sal.ID, "month", sal.Month, "year", sal.Year)
	return &sal, nil
}

func (s *Storage) UpdateSalary(ctx context.Context, id int64, patch domain.SalaryPatch) (*domain.Salary, error) {
	set := salaryPatchColumns(patch)
	if len(set) == 0 {
		return s.GetSalary(ctx, id)
	}

	query, args, err := psql.Update("salaries").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, amount::text, month, year, notes, date, created_at").
		ToSql()
	if err != nil {
		return nil, storage.Wrap("build update salary", err)
	}

	sal, err := scanSalary(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Wrap("update salary", err)
	}
	return &sal, nil
}

func (s *Storage) DeleteSalary(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Delete("salaries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, storage.Wrap("build delete salary", err)
	}

	result, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, storage.Wrap("delete salary", err)
	}
	return result.RowsAffected() > 0, nil
}

func salaryPatchColumns(patch domain.SalaryPatch) map[string]any {
	set := map[string]any{}
	if patch.Amount != nil {
		set["amount"] = patch.Amount.String()
	}
	if patch.Month != nil {
		set["month"] = *patch.Month
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.NotesSet {
		set["notes"] = patch.Notes
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	return set
}

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var (
		e      domain.Expense
		amount string
	)
	if err := row.Scan(&e.ID, &e.Category, &e.Description, &amount, &e.Date, &e.CreatedAt); err != nil {
		return domain.Expense{}, err
	}
	a, err := domain.ParseAmount(amount)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	e.Amount = a
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func scanSalary(row pgx.Row) (domain.Salary, error) {
	var (
		sal    domain.Salary
		amount string
	)
	if err := row.Scan(&sal.ID, &amount, &sal.Month, &sal.Year, &sal.Notes, &sal.Date, &sal.CreatedAt); err != nil {
		return domain.Salary{}, err
	}
	a, err := domain.ParseAmount(amount)
	if err != nil {
		return domain.Salary{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	sal.Amount = a
	sal.Date = sal.Date.UTC()
	sal.CreatedAt = sal.CreatedAt.UTC()
	return sal, nil
}

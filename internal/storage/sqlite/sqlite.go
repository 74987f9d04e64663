// internal/storage/sqlite/sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	sq "github.com/Masterminds/squirrel"

	// sqlite driver
	_ "modernc.org/sqlite"
)

var (
	expenseColumns = []string{"id", "category", "description", "amount", "date", "created_at"}
	salaryColumns  = []string{"id", "amount", "month", "year", "notes", "date", "created_at"}
)

// Storage is a single-file relational store. Amounts are kept as canonical
// decimal text and timestamps as unix microseconds.
type Storage struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

// Open creates the database file if needed and, when migrate is set,
// applies the embedded migrations.
func Open(ctx context.Context, path string, migrate bool) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if migrate {
		if err := storage.Migrate(ctx, db, "sqlite"); err != nil {
			db.Close()
			return nil, err
		}
	}

	// один писатель: SQLite всё равно сериализует запись
	db.SetMaxOpenConns(1)

	return &Storage{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// === ExpenseStorage ===

func (s *Storage) ListExpenses(ctx context.Context, coll domain.ExpenseCollection) ([]domain.Expense, error) {
	rows, err := s.sb.Select(expenseColumns...).
		From(coll.Table()).
		OrderBy("date ASC", "id ASC").
		QueryContext(ctx)
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
	row := s.sb.Select(expenseColumns...).
		From(coll.Table()).
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Wrap("get expense", err)
	}
	return &e, nil
}

func (s *Storage) CreateExpense(ctx context.Context, coll domain.ExpenseCollection, in domain.NewExpense) (*domain.Expense, error) {
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	result, err := s.sb.Insert(coll.Table()).
		Columns("category", "description", "amount", "date", "created_at").
		Values(in.Category, in.Description, in.Amount.String(), date.UnixMicro(), now.UnixMicro()).
		ExecContext(ctx)
	if err != nil {
		return nil, storage.Wrap("create expense", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, storage.Wrap("create expense", err)
	}

	e, err := s.GetExpense(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, storage.Wrap("create expense", fmt.Errorf("row %d vanished after insert", id))
	}
	return e, nil
}

func (s *Storage) DeleteExpense(ctx context.Context, coll domain.ExpenseCollection, id int64) (bool, error) {
	result, err := s.sb.Delete(coll.Table()).Where(sq.Eq{"id": id}).ExecContext(ctx)
	if err != nil {
		return false, storage.Wrap("delete expense", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storage.Wrap("delete expense", err)
	}
	return n > 0, nil
}

// === SalaryStorage ===

func (s *Storage) ListSalaries(ctx context.Context) ([]domain.Salary, error) {
	rows, err := s.sb.Select(salaryColumns...).
		From("salaries").
		OrderBy("date ASC", "id ASC").
		QueryContext(ctx)
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
	row := s.sb.Select(salaryColumns...).
		From("salaries").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	sal, err := scanSalary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.Wrap("get salary", err)
	}
	return &sal, nil
}

func (s *Storage) CreateSalary(ctx context.Context, in domain.NewSalary) (*domain.Salary, error) {
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	result, err := s.sb.Insert("salaries").
		Columns("amount", "month", "year", "notes", "date", "created_at").
		Values(in.Amount.String(), in.Month, in.Year, in.Notes, date.UnixMicro(), now.UnixMicro()).
		ExecContext(ctx)
	if err != nil {
		return nil, storage.Wrap("create salary", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, storage.Wrap("create salary", err)
	}

	sal, err := s.GetSalary(ctx, id)
	if err != nil {
		return nil, err
	}
	if sal == nil {
		return nil, storage.Wrap("create salary", fmt.Errorf("row %d vanished after insert", id))
	}
	return sal, nil
}

func (s *Storage) UpdateSalary(ctx context.Context, id int64, patch domain.SalaryPatch) (*domain.Salary, error) {
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
		set["date"] = patch.Date.UnixMicro()
	}
	if len(set) == 0 {
		return s.GetSalary(ctx, id)
	}

	result, err := s.sb.Update("salaries").SetMap(set).Where(sq.Eq{"id": id}).ExecContext(ctx)
	if err != nil {
		return nil, storage.Wrap("update salary", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, storage.Wrap("update salary", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetSalary(ctx, id)
}

func (s *Storage) DeleteSalary(ctx context.Context, id int64) (bool, error) {
	result, err := s.sb.Delete("salaries").Where(sq.Eq{"id": id}).ExecContext(ctx)
	if err != nil {
		return false, storage.Wrap("delete salary", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storage.Wrap("delete salary", err)
	}
	return n > 0, nil
}

func scanExpense(row sq.RowScanner) (domain.Expense, error) {
	var (
		e               domain.Expense
		description     sql.NullString
		amount          string
		date, createdAt int64
	)
	if err := row.Scan(&e.ID, &e.Category, &description, &amount, &date, &createdAt); err != nil {
		return domain.Expense{}, err
	}
	a, err := domain.ParseAmount(amount)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if description.Valid {
		e.Description = &description.String
	}
	e.Amount = a
	e.Date = time.UnixMicro(date).UTC()
	e.CreatedAt = time.UnixMicro(createdAt).UTC()
	return e, nil
}

func scanSalary(row sq.RowScanner) (domain.Salary, error) {
	var (
		sal             domain.Salary
		notes           sql.NullString
		amount          string
		date, createdAt int64
	)
	if err := row.Scan(&sal.ID, &amount, &sal.Month, &sal.Year, &notes, &date, &createdAt); err != nil {
		return domain.Salary{}, err
	}
	a, err := domain.ParseAmount(amount)
	if err != nil {
		return domain.Salary{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if notes.Valid {
		sal.Notes = &notes.String
	}
	sal.Amount = a
	sal.Date = time.UnixMicro(date).UTC()
	sal.CreatedAt = time.UnixMicro(createdAt).UTC()
	return sal, nil
}

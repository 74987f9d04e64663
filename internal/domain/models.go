// internal/domain/models.go
package domain

import "time"

// ExpenseCollection — одна из двух коллекций расходов с одинаковой схемой
type ExpenseCollection string

const (
	Expenses       ExpenseCollection = "expenses"
	IndianExpenses ExpenseCollection = "indian-expenses"
)

// Table returns the relational table backing the collection.
func (c ExpenseCollection) Table() string {
	switch c {
	case IndianExpenses:
		return "indian_expenses"
	default:
		return "expenses"
	}
}

func (c ExpenseCollection) IsValid() bool {
	return c == Expenses || c == IndianExpenses
}

type Expense struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	Amount      Amount    `json:"amount"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Salary struct {
	ID        int64     `json:"id"`
	Amount    Amount    `json:"amount"`
	Month     string    `json:"month"`
	Year      int       `json:"year"`
	Notes     *string   `json:"notes"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewExpense — канонический payload после валидации, date всегда заполнена
type NewExpense struct {
	Category    string
	Description *string
	Amount      Amount
	Date        time.Time
}

type NewSalary struct {
	Amount Amount
	Month  string
	Year   int
	Notes  *string
	Date   time.Time
}

// SalaryPatch carries only the fields present in a PATCH body.
// NotesSet distinguishes an explicit null (clear notes) from an absent field.
type SalaryPatch struct {
	Amount   *Amount
	Month    *string
	Year     *int
	Notes    *string
	NotesSet bool
	Date     *time.Time
}

func (p SalaryPatch) IsEmpty() bool {
	return p.Amount == nil && p.Month == nil && p.Year == nil && !p.NotesSet && p.Date == nil
}

// Apply merges the patch into s and returns the result.
func (p SalaryPatch) Apply(s Salary) Salary {
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Month != nil {
		s.Month = *p.Month
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
	if p.NotesSet {
		s.Notes = p.Notes
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	return s
}

// internal/validator/normalize.go
package validator

import (
	"finance-tracker/internal/domain"
)

var (
	expenseFields = []string{"category", "description", "amount", "date"}
	salaryFields  = []string{"amount", "month", "year", "notes", "date"}
)

type expenseInput struct {
	Category string `json:"category" validate:"required,notblank"`
	Amount   string `json:"amount" validate:"required,amount,positive"`
}

type salaryInput struct {
	Amount string `json:"amount" validate:"required,amount,positive"`
	Month  string `json:"month" validate:"required,month"`
	Year   int    `json:"year" validate:"required,gte=1900,lte=9999"`
}

// Expense coerces and validates a create payload for either expense
// collection. A missing date becomes the current time.
func Expense(p Payload) (domain.NewExpense, error) {
	var errs fieldErrors

	var in expenseInput
	if c := p.text("category", &errs); c != nil {
		in.Category = *c
	}
	in.Amount = p.amountText("amount", &errs)
	description := p.text("description", &errs)
	date, ok := p.date("date", &errs)
	if !ok {
		date = nowFunc()
	}

	errs.addStruct(Validate.Struct(in), nil)
	if err := errs.result(expenseFields); err != nil {
		return domain.NewExpense{}, err
	}

	amount, _ := domain.ParseAmount(in.Amount)
	return domain.NewExpense{
		Category:    in.Category,
		Description: description,
		Amount:      amount,
		Date:        date,
	}, nil
}

func Salary(p Payload) (domain.NewSalary, error) {
	var errs fieldErrors

	var in salaryInput
	in.Amount = p.amountText("amount", &errs)
	if m := p.text("month", &errs); m != nil {
		in.Month = *m
	}
	in.Year = p.integer("year", &errs)
	notes := p.text("notes", &errs)
	date, ok := p.date("date", &errs)
	if !ok {
		date = nowFunc()
	}

	errs.addStruct(Validate.Struct(in), nil)
	if err := errs.result(salaryFields); err != nil {
		return domain.NewSalary{}, err
	}

	amount, _ := domain.ParseAmount(in.Amount)
	month, _ := domain.CanonicalMonth(in.Month)
	return domain.NewSalary{
		Amount: amount,
		Month:  month,
		Year:   in.Year,
		Notes:  notes,
		Date:   date,
	}, nil
}

// SalaryPatch validates a partial update. Every field is optional, but a
// present field must pass the same rules as on create. An explicit null
// notes clears them; null for any other field is rejected.
func SalaryPatch(p Payload) (domain.SalaryPatch, error) {
	var errs fieldErrors

	present := map[string]bool{}
	for _, name := range []string{"amount", "month", "year"} {
		if !p.Has(name) {
			continue
		}
		if p.isNull(name) {
			errs.add(name, "%s must not be null", name)
			continue
		}
		present[name] = true
	}

	var in salaryInput
	if present["amount"] {
		in.Amount = p.amountText("amount", &errs)
	}
	if present["month"] {
		if m := p.text("month", &errs); m != nil {
			in.Month = *m
		}
	}
	if present["year"] {
		in.Year = p.integer("year", &errs)
	}
	notes := p.text("notes", &errs)
	date, hasDate := p.date("date", &errs)

	errs.addStruct(Validate.Struct(in), present)
	if err := errs.result(salaryFields); err != nil {
		return domain.SalaryPatch{}, err
	}

	var patch domain.SalaryPatch
	if present["amount"] {
		amount, _ := domain.ParseAmount(in.Amount)
		patch.Amount = &amount
	}
	if present["month"] {
		month, _ := domain.CanonicalMonth(in.Month)
		patch.Month = &month
	}
	if present["year"] {
		year := in.Year
		patch.Year = &year
	}
	if p.Has("notes") {
		patch.NotesSet = true
		patch.Notes = notes
	}
	if hasDate {
		patch.Date = &date
	}
	return patch, nil
}

// internal/validator/errors.go
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"finance-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field of one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "Validation error: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	return slices.ContainsFunc(e.Fields, func(f FieldError) bool { return f.Field == field })
}

// IsValidationError is errors.As shorthand used by handlers.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type fieldErrors struct {
	items []FieldError
}

func (fe *fieldErrors) add(field, format string, args ...any) {
	if fe.has(field) {
		return
	}
	fe.items = append(fe.items, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (fe *fieldErrors) has(field string) bool {
	return slices.ContainsFunc(fe.items, func(f FieldError) bool { return f.Field == field })
}

// addStruct folds validator output into fe. Fields that already failed
// coercion are skipped, and when only is non-nil so is every field not in it.
func (fe *fieldErrors) addStruct(err error, only map[string]bool) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.add("body", "%s", err.Error())
		return
	}
	for _, e := range verrs {
		if only != nil && !only[e.Field()] {
			continue
		}
		fe.add(e.Field(), "%s", fieldErrorToString(e))
	}
}

// result orders errors by the entity's field order.
func (fe *fieldErrors) result(order []string) error {
	if len(fe.items) == 0 {
		return nil
	}
	items := slices.Clone(fe.items)
	slices.SortStableFunc(items, func(a, b FieldError) int {
		return position(order, a.Field) - position(order, b.Field)
	})
	return &ValidationError{Fields: items}
}

func position(order []string, field string) int {
	if i := slices.Index(order, field); i >= 0 {
		return i
	}
	return len(order)
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "month":
		return fmt.Sprintf("%s must be a month name (January to December)", e.Field())
	case "amount":
		if s, ok := e.Value().(string); ok {
			if _, err := domain.ParseAmount(s); err != nil {
				return err.Error()
			}
		}
		return fmt.Sprintf("%s must be a decimal number", e.Field())
	case "positive":
		return fmt.Sprintf("%s must be greater than 0", e.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 1900 and 9999", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// internal/validator/validator.go
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"finance-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// В сообщениях об ошибках используем имена полей из JSON
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Регистрируем валидацию: строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// Одно из двенадцати английских названий месяца
	_ = Validate.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, ok := domain.CanonicalMonth(fl.Field().String())
		return ok
	})

	// Десятичное число, не больше двух знаков после запятой
	_ = Validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAmount(fl.Field().String())
		return err == nil
	})

	_ = Validate.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		a, err := domain.ParseAmount(fl.Field().String())
		return err == nil && a.IsPositive()
	})
}

// internal/bot/format.go
package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"finance-tracker/internal/domain"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	plnPrinter = message.NewPrinter(language.Polish)
	inrPrinter = message.NewPrinter(language.MustParse("en-IN"))
)

// FormatAmount prints złoty for expenses and rupees for the indian collection,
// with the grouping of the matching locale.
func FormatAmount(coll domain.ExpenseCollection, a domain.Amount) string {
	if coll == domain.IndianExpenses {
		return "₹" + inrPrinter.Sprintf("%.2f", a.Float64())
	}
	return plnPrinter.Sprintf("%.2f", a.Float64()) + " zł"
}

// SanitizeInput заменяет любые пробельные символы обычным пробелом и
// схлопывает повторы.
func SanitizeInput(s string) string {
	s = fixEncoding(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	// клиенты на Windows иногда присылают cp1251
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}

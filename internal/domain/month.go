// internal/domain/month.go
package domain

import (
	"strings"
	"time"
)

// Months holds the canonical English month names in calendar order.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// CanonicalMonth matches name case-insensitively against Months.
func CanonicalMonth(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, m := range Months {
		if strings.EqualFold(m, name) {
			return m, true
		}
	}
	return "", false
}

// MonthNumber returns time.Month for a canonical or case-variant month name.
func MonthNumber(name string) (time.Month, bool) {
	canonical, ok := CanonicalMonth(name)
	if !ok {
		return 0, false
	}
	for i, m := range Months {
		if m == canonical {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

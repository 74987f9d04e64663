// internal/domain/errors.go
package domain

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrMalformedID = errors.New("malformed record id")
)

// internal/validator/payload.go
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Payload is a decoded JSON object body; values stay raw until coerced.
type Payload map[string]json.RawMessage

var nowFunc = func() time.Time { return time.Now().UTC() }

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParsePayload(body []byte) (Payload, error) {
	var p Payload
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "request body must be a JSON object"}}}
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "request body must be a JSON object"}}}
	}
	return p, nil
}

// PayloadFrom builds a Payload from Go values, e.g. parsed bot arguments.
func PayloadFrom(values map[string]any) (Payload, error) {
	p := make(Payload, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		p[k] = raw
	}
	return p, nil
}

// Has reports whether the field was sent, including an explicit null.
func (p Payload) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Payload) isNull(name string) bool {
	raw, ok := p[name]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text returns a string field; absent and null both yield nil.
func (p Payload) text(name string, errs *fieldErrors) *string {
	if !p.Has(name) || p.isNull(name) {
		return nil
	}
	var s string
	if err := json.Unmarshal(p[name], &s); err != nil {
		errs.add(name, "%s must be a string", name)
		return nil
	}
	return &s
}

// amountText accepts a JSON number or a numeric string and returns its
// literal text, so "42.50" and 42.50 both keep their digits.
func (p Payload) amountText(name string, errs *fieldErrors) string {
	if !p.Has(name) || p.isNull(name) {
		return ""
	}
	raw := bytes.TrimSpace(p[name])
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			errs.add(name, "%s must be a number or a numeric string", name)
			return ""
		}
		if strings.TrimSpace(s) == "" {
			errs.add(name, "%s is required", name)
		}
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		errs.add(name, "%s must be a number or a numeric string", name)
		return ""
	}
	return n.String()
}

func (p Payload) integer(name string, errs *fieldErrors) int {
	if !p.Has(name) || p.isNull(name) {
		return 0
	}
	raw := bytes.TrimSpace(p[name])
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			errs.add(name, "%s must be an integer", name)
			return 0
		}
	} else {
		s = string(raw)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		errs.add(name, "%s must be an integer", name)
		return 0
	}
	return v
}

// Dates outside these years cannot be stored as timestamptz reliably or
// encoded back to JSON.
const (
	minDateYear = 1900
	maxDateYear = 9999
)

var (
	minDate = time.Date(minDateYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(maxDateYear, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// date accepts an ISO-8601 string or unix milliseconds. The second result
// is false when the field is absent, null or invalid.
func (p Payload) date(name string, errs *fieldErrors) (time.Time, bool) {
	if !p.Has(name) || p.isNull(name) {
		return time.Time{}, false
	}
	raw := bytes.TrimSpace(p[name])
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if t, ok := parseDate(s); ok {
				return checkDateRange(name, t, errs)
			}
		}
		errs.add(name, "%s must be an ISO-8601 date", name)
		return time.Time{}, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		errs.add(name, "%s must be an ISO-8601 date or a unix timestamp in milliseconds", name)
		return time.Time{}, false
	}
	ms, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil || f < float64(minDate.UnixMilli()) || f > float64(maxDate.UnixMilli()) {
			errs.add(name, "%s must be between years %d and %d", name, minDateYear, maxDateYear)
			return time.Time{}, false
		}
		ms = int64(f)
	}
	return checkDateRange(name, time.UnixMilli(ms).UTC(), errs)
}

func checkDateRange(name string, t time.Time, errs *fieldErrors) (time.Time, bool) {
	if t.Before(minDate) || t.After(maxDate) {
		errs.add(name, "%s must be between years %d and %d", name, minDateYear, maxDateYear)
		return time.Time{}, false
	}
	return t, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

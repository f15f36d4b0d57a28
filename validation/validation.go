// Package validation collects field-level input violations.
package validation

import (
	"net/mail"
	"slices"
	"strings"

	"github.com/diewo77/client-portal/httpx"
)

// Violations maps a field name to the first problem found with it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless the field already has a violation.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// List returns the violations sorted by field, ready for the error envelope.
func (v Violations) List() []httpx.FieldError {
	out := make([]httpx.FieldError, 0, len(v))
	for field, msg := range v {
		out = append(out, httpx.FieldError{Field: field, Message: msg})
	}
	slices.SortFunc(out, func(a, b httpx.FieldError) int { return strings.Compare(a.Field, b.Field) })
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// Email checks value is a bare address. Empty values are left to Required.
func Email(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, "invalid_email")
	}
}

// OneOf checks value is one of allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	if !slices.Contains(allowed, value) {
		v.Add(field, "must be one of: "+strings.Join(allowed, ", "))
	}
}

// MaxLen checks value has at most n characters.
func MaxLen(field, value string, n int, v Violations) {
	if len([]rune(value)) > n {
		v.Add(field, "too_long")
	}
}

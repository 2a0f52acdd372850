package model

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrValidation is wrapped by every input validation failure.
	ErrValidation = errors.New("validation error")
	// ErrLoginRequired is returned when an operation needs a session.
	ErrLoginRequired = errors.New("login required")
	// ErrForbidden is returned when an operation needs an admin session.
	ErrForbidden = errors.New("admin access required")
)

// ValidationError carries one message per invalid field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns nil when fields is empty.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Error lists the failing fields in key order.
func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

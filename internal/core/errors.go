package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
)

// Violations maps an input field name to the reason it was rejected.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// ValidationError reports every rejected field of an input schema.
type ValidationError struct {
	Violations Violations
	cause      error
}

func NewValidationError(v Violations) *ValidationError {
	return &ValidationError{Violations: v}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.Violations[f]
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrValidation, e.cause}
	}
	return []error{ErrValidation}
}

// DuplicateNameError is returned when a representative or customer name is taken.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s named %q already exists", e.Entity, e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NotFoundError is returned when a record id does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MissingReference builds the validation error returned when a sale points at
// a representative or customer that does not exist. It matches both
// ErrValidation and ErrNotFound.
func MissingReference(field string, nf *NotFoundError) *ValidationError {
	return &ValidationError{
		Violations: Violations{field: "not found"},
		cause:      nf,
	}
}

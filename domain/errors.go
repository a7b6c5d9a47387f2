package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports data that does not satisfy a declared constraint.
// It always names the offending field and the constraint it violated.
type ValidationError struct {
	Field      string
	Constraint string
	Param      string
	Value      any
}

func (e *ValidationError) Error() string {
	constraint := e.Constraint
	if e.Param != "" {
		constraint = e.Constraint + "=" + e.Param
	}
	if e.Field == "" {
		return fmt.Sprintf("validation failed: violates %s", constraint)
	}
	return fmt.Sprintf("%s: violates %s", e.Field, constraint)
}

// ValidationErrors groups every violation found in a single value.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.As reach the individual violations.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, v := range e {
		errs = append(errs, v)
	}
	return errs
}

// StoreError wraps any failure reported by the record store transport.
type StoreError struct {
	Op         string
	Table      string
	StatusCode int
	Message    string
	Err        error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString("store: ")
	b.WriteString(e.Op)
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the store answered 404 for the requested record.
func (e *StoreError) NotFound() bool {
	return e.StatusCode == 404
}

// GenerationError means the generation endpoint failed or returned no usable
// candidates. The user has to resubmit; nothing retries automatically.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

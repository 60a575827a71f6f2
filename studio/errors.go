/*
errors.go - Centralized error types for the studio engine

PURPOSE:
  All shared error types in one place. Engine packages wrap these with
  their own context (the reconcile package adds per-pair failures).

ERROR CATEGORIES:
  1. Validation errors - input rejected before a record is constructed
  2. Lookup errors - referenced record does not exist
  3. Workflow errors - step names outside the fixed catalog

USAGE:
  if errors.Is(err, studio.ErrValidation) {
      // report field problems back to the caller, do not retry
  }

SEE ALSO:
  - validation.go: Produces ValidationErrors
  - reconcile/errors.go: Per-pair reconciliation failures
*/
package studio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when input fails validation. Not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownStep is returned when a workflow step is not in the catalog.
	ErrUnknownStep = errors.New("unknown workflow step")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationErrors collects every invalid field of one input.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrValidation }

// Fields returns field -> reason, for API responses.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, f := range e {
		out[f.Field] = f.Reason
	}
	return out
}

func (e ValidationErrors) sorted() ValidationErrors {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Field < e[j].Field })
	return e
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UnknownStepError names the rejected step.
type UnknownStepError struct {
	Medium Medium
	Step   Step
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown workflow step %q for medium %q", e.Step, e.Medium)
}

func (e *UnknownStepError) Unwrap() error { return ErrUnknownStep }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUnknownStep)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

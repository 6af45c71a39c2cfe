package services

import (
	"fmt"
)

// ValidationError reports a missing or out-of-range input field. It is
// rejected before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a temporal overlap or positional infeasibility for a
// bus assignment. It is rejected before persistence and is a user-actionable
// outcome, not an exceptional condition.
type ConflictError struct {
	Reason          string
	ConflictingCity string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// GuardViolationError reports an operation blocked by live seat
// reservations, with the count of blocking held/confirmed rows.
type GuardViolationError struct {
	TripID        string
	BlockingSeats int
	Operation     string
}

func (e *GuardViolationError) Error() string {
	return fmt.Sprintf("%s blocked: trip %s has %d held or confirmed seat reservation(s)",
		e.Operation, e.TripID, e.BlockingSeats)
}

// NotFoundError reports that a resource does not exist or is not owned by
// the calling agency. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

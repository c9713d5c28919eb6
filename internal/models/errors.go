package models

import (
	"fmt"
	"strings"
)

// ConflictError is returned when requested seats are already held or booked
// by another party. The caller can recover by re-selecting seats.
type ConflictError struct {
	ScheduleID int64
	Seats      []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats %s are already taken", strings.Join(e.Seats, ", "))
}

// ValidationError is returned for malformed or inconsistent input. It is not
// retried; the message is surfaced to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError is returned when a schedule or booking does not exist
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AmountMismatchError is returned when a supplied payment amount differs from
// the computed total by more than the accepted tolerance.
type AmountMismatchError struct {
	Expected float64
	Provided float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount mismatch. Expected: %.2f, Provided: %.2f", e.Expected, e.Provided)
}

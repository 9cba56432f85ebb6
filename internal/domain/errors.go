package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrNotFound        = errors.New("no rows returned")
	ErrConflict        = errors.New("record already exists")
	ErrSessionNotFound = errors.New("onboarding session not found")
	ErrSessionBusy     = errors.New("onboarding session has a request in flight")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserIDMissing   = errors.New("session has no user id")
)

// ValidationError is returned when a required field is missing or fails a format check.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DataAccessError is returned when a data store call fails or yields no rows.
type DataAccessError struct {
	Op    string
	Table Table
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// ProvisioningError is returned when the schema provisioning call fails.
// StatusCode is zero for transport failures.
type ProvisioningError struct {
	Username   string
	StatusCode int
	Err        error
}

func (e *ProvisioningError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provisioning %q: unexpected status %d", e.Username, e.StatusCode)
	}
	return fmt.Sprintf("provisioning %q: %v", e.Username, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// TransitionError is returned when an event is not valid from the current step.
type TransitionError struct {
	Event   Event
	Current Step
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from step %q", e.Event, e.Current)
}

// CompensationError carries a failure that triggered compensation together
// with the compensations that failed in turn. It reads as the original failure.
type CompensationError struct {
	Err          error
	Compensation error
}

func (e *CompensationError) Error() string {
	return e.Err.Error()
}

func (e *CompensationError) Unwrap() error { return e.Err }

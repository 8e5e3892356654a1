package scheduler

import (
	"errors"
	"fmt"

	"github.com/npash/officemgr/pkg/calcom"
)

// NotFoundError means an employee name has no directory entry
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee %q not found in directory", e.Name)
}

// ExternalServiceError wraps a non-2xx response from the booking service
type ExternalServiceError struct {
	Op     string
	Status int
	Body   string
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: booking service returned %d: %s", e.Op, e.Status, e.Body)
}

// TimeoutError means the availability query exceeded its bounded wait
type TimeoutError struct {
	Employee string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for booking service (employee %q)", e.Employee)
}

// InternalError wraps an unexpected failure during processing
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// externalOrInternal converts a calcom client error into the engine's
// taxonomy: non-2xx becomes ExternalServiceError, anything else Internal.
func externalOrInternal(op string, err error) error {
	var apiErr *calcom.APIError
	if errors.As(err, &apiErr) {
		return &ExternalServiceError{Op: op, Status: apiErr.StatusCode, Body: apiErr.Body}
	}
	return &InternalError{Err: fmt.Errorf("%s: %w", op, err)}
}

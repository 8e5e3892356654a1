package tools

import (
	"errors"
	"fmt"

	"github.com/npash/officemgr/pkg/scheduler"
)

// errorResult converts an engine error into a structured tool result. The
// taxonomy survives the boundary in the data payload so the agent can
// tell the user what actually went wrong; nothing is raised.
func errorResult(err error) *Result {
	var notFound *scheduler.NotFoundError
	if errors.As(err, &notFound) {
		return &Result{
			Success: false,
			Error:   notFound.Error(),
			Output:  fmt.Sprintf("Employee %q was not found in the directory.", notFound.Name),
			Data: map[string]interface{}{
				"error_kind": "not_found",
				"employee":   notFound.Name,
			},
		}
	}

	var timeout *scheduler.TimeoutError
	if errors.As(err, &timeout) {
		return &Result{
			Success: false,
			Error:   timeout.Error(),
			Output:  fmt.Sprintf("The booking service did not answer in time while checking %q.", timeout.Employee),
			Data: map[string]interface{}{
				"error_kind": "timeout",
				"employee":   timeout.Employee,
			},
		}
	}

	var external *scheduler.ExternalServiceError
	if errors.As(err, &external) {
		return &Result{
			Success: false,
			Error:   external.Error(),
			Output:  fmt.Sprintf("The booking service rejected the request (%d).", external.Status),
			Data: map[string]interface{}{
				"error_kind": "external_service_error",
				"status":     external.Status,
				"details":    external.Body,
			},
		}
	}

	return &Result{
		Success: false,
		Error:   err.Error(),
		Output:  "An internal error occurred while processing the request.",
		Data: map[string]interface{}{
			"error_kind": "internal",
			"details":    err.Error(),
		},
	}
}

package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the analysis service
var (
	// ErrNoResources indicates the project has no resources of the
	// requested type to analyze.
	ErrNoResources = errors.New("no resources to analyze")

	// ErrAnalysisQueueFull indicates the background runner could not accept
	// the analysis task.
	ErrAnalysisQueueFull = errors.New("analysis queue is full")
)

// ServiceError wraps errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "start_analysis")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

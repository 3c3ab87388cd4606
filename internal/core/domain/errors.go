package domain

import (
	"errors"
	"strings"
)

// Sentinel errors mapped to HTTP statuses by the API error handler.
var (
	// ErrHidden is the denial used on read paths and for resources the
	// actor has no relation to: rendered as 404 so existence is not leaked.
	ErrHidden = errors.New("resource not found")
	// ErrForbidden is the denial used on mutation paths where the actor
	// already knows the resource exists: rendered as 403.
	ErrForbidden = errors.New("access forbidden")

	ErrMemberNotFound  = errors.New("member not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrSprintNotFound  = errors.New("sprint not found")
	ErrTaskNotFound    = errors.New("task not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError aggregates every field and reference failure of a request
// so a client can fix all of them in one round trip. Always rendered as 400.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError, or nil when there is nothing
// to report.
func NewValidationError(messages []string) *ValidationError {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// Package shared contains error kinds and change descriptors used by every
// domain package and store. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, matched with errors.Is.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrValidation          = errors.New("validation error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrReferenced          = errors.New("entity is still referenced")
	ErrInvalidInput        = errors.New("invalid input")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "admin", "teacher", "session"
	Op      string // Operation that failed, e.g., "UpdateTeacher"
	Kind    error  // Base error kind for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NotFound builds the error returned by update/remove calls that reference an
// unknown id. Such calls leave state untouched.
func NotFound(domain, op, kind, id string) *DomainError {
	return NewDomainError(domain, op, ErrNotFound, fmt.Sprintf("%s %q not found", kind, id))
}

// Session errors
var (
	ErrDemoModeDisabled  = NewDomainError("session", "SetDemoUser", ErrForbidden, "demo mode is disabled")
	ErrNoIdentityForRole = NewDomainError("session", "SetDemoUser", ErrNotFound, "no identity with that role")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidInput)
}

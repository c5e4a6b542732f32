package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every PlaceServiceError and UserServiceError wraps exactly one
// of these; the API layer maps the kind to a status code and the error's
// Message to the response body.
var (
	// ErrInvalidInput indicates the request data failed validation. Maps to 422.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlaceNotFound indicates the requested place does not exist. Maps to 404.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrPlacesNotFound indicates a user has no places. Maps to 404.
	ErrPlacesNotFound = errors.New("no places found for user")

	// ErrUserNotFound indicates the referenced user does not exist. Maps to 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotOwned indicates a place is owned by a different user than the caller.
	// Maps to 401.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrEmailTaken indicates signup with an already registered email. Maps to 422.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. Maps to 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable indicates a storage or infrastructure failure. Maps to 500.
	ErrUnavailable = errors.New("service unavailable")
)

// PlaceServiceError is returned by PlaceService for every expected failure.
// Message is safe to show to clients; Err carries the underlying cause.
type PlaceServiceError struct {
	Operation string
	Message   string
	Kind      error
	Err       error
}

// Error implements the error interface for PlaceServiceError.
func (e *PlaceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("place service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("place service %s failed: %s", e.Operation, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *PlaceServiceError) Unwrap() []error {
	return unwrapBoth(e.Kind, e.Err)
}

// NewPlaceServiceError creates a new PlaceServiceError.
func NewPlaceServiceError(operation, message string, kind, err error) *PlaceServiceError {
	return &PlaceServiceError{
		Operation: operation,
		Message:   message,
		Kind:      kind,
		Err:       err,
	}
}

// UserServiceError is the UserService counterpart of PlaceServiceError.
type UserServiceError struct {
	Operation string
	Message   string
	Kind      error
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *UserServiceError) Unwrap() []error {
	return unwrapBoth(e.Kind, e.Err)
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, kind, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Kind:      kind,
		Err:       err,
	}
}

func unwrapBoth(kind, err error) []error {
	errs := make([]error, 0, 2)
	if kind != nil {
		errs = append(errs, kind)
	}
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrUserNotFound = NewNotFoundError("user", "User not found")
)

// HTTPStatuser is implemented by errors that know their HTTP status code.
type HTTPStatuser interface {
	error
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// HTTPStatus returns 400 Bad Request
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns 404 Not Found
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// StorageError represents a failure of the backing store. Message is safe to
// show to clients; Err is the underlying cause and is only logged.
type StorageError struct {
	Message string
	Err     error
}

// NewStorageError creates a new storage error
func NewStorageError(message string, err error) *StorageError {
	return &StorageError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 500 Internal Server Error
func (e *StorageError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// IsNotFound reports whether err or any error it wraps is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Status returns the HTTP status for err and the message that may be shown to
// the client. Errors without a known status map to 500 with fallback.
func Status(err error, fallback string) (int, string) {
	var hs HTTPStatuser
	if !errors.As(err, &hs) {
		return http.StatusInternalServerError, fallback
	}

	// The cause of a StorageError is for logs only.
	if se, ok := hs.(*StorageError); ok {
		return se.HTTPStatus(), se.Message
	}
	return hs.HTTPStatus(), hs.Error()
}

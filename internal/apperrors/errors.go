package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidCredential    = errors.New("invalid or missing API credential")
	ErrBlockedResponse      = errors.New("model response was blocked")
	ErrMalformedReply       = errors.New("malformed model reply")
)

// ValidationError rejects bad input before any external call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError for a named field.
func NewValidation(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ServiceError wraps a failure at the AI text-service boundary.
// It is surfaced to the user as-is and never retried.
type ServiceError struct {
	Op  string
	Err error
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("AI error in %s: %v", e.Op, e.Err)
}

func (e ServiceError) Unwrap() error { return e.Err }

// NewService wraps err with the operation that triggered it.
func NewService(op string, err error) error {
	return ServiceError{Op: op, Err: err}
}

// IsService reports whether err is a ServiceError.
func IsService(err error) bool {
	var se ServiceError
	return errors.As(err, &se)
}

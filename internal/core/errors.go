package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound  = errors.New("character not found")
	ErrInvalidID = errors.New("invalid character ID")
)

// StatusError is returned when the API answers with a non-success status.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

// NewStatusError creates a StatusError. message may be empty.
func NewStatusError(code int, status, message string) *StatusError {
	return &StatusError{Code: code, Status: status, Message: message}
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("the request failed: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("the request failed: %s", e.Status)
}

// Unwrap maps 404 onto ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == 404 {
		return ErrNotFound
	}
	return nil
}

// ValidateID returns ErrInvalidID for ids the API can never serve.
func ValidateID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by status code and message so that WithCause copies
// still satisfy errors.Is against the sentinel they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	// ErrReferentialIntegrity reports a tag or category id that does not exist.
	ErrReferentialIntegrity = &Error{
		Code:    http.StatusUnprocessableEntity,
		Message: "referenced record does not exist",
	}
)

// MissingIDsError carries the ids that failed a referential integrity check.
// It unwraps to ErrReferentialIntegrity.
type MissingIDsError struct {
	Kind string // "tag" or "category"
	IDs  []int64
}

func (e *MissingIDsError) Error() string {
	return fmt.Sprintf("%s ids do not exist: %v", e.Kind, e.IDs)
}

func (e *MissingIDsError) Unwrap() error { return ErrReferentialIntegrity }

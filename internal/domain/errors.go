package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared across services and controllers.
var (
	// ErrNotFound means the referenced event does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is not the event admin for a mutating operation.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyAnswered means the invitation response is final and cannot change.
	ErrAlreadyAnswered = errors.New("invitation already answered")
	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail means the storage layer rejected a duplicate email.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidToken means the activation token matched no inactive account.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials means email/password authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotActive means the account has not been activated yet.
	ErrAccountNotActive = errors.New("account is not active")
)

// ValidationError carries field-level constraint violations as a
// field -> message mapping. It is returned before any aggregate is persisted.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package shared

import "errors"

// ErrorKind classifies a DomainError for callers that need to decide how to
// surface it (client error, not found, server error).
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindNotFound     ErrorKind = "not_found"
	KindPersistence  ErrorKind = "persistence"
	KindUnauthorized ErrorKind = "unauthorized"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error. The kind is validation unless
// the code is one of the well-known conflict or not-found codes.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    kindForCode(code),
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for malformed input or references to
// entities the caller does not own.
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewConflictError creates an error for a business rule violated by the
// current state (insufficient stock, dependent rows, stale version).
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewNotFoundError creates an error for an entity that is absent or belongs
// to another tenant. Both cases must produce the same error.
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewUnauthorizedError creates an error for missing or rejected credentials
func NewUnauthorizedError(code, message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Code: code, Message: message}
}

// NewPersistenceError wraps a store failure. The transaction that produced
// it has already been rolled back when this reaches a caller.
func NewPersistenceError(message string, cause error) *DomainError {
	return &DomainError{Kind: KindPersistence, Code: "PERSISTENCE_ERROR", Message: message, Err: cause}
}

// WrapPersistence returns err unchanged when it is already a DomainError and
// wraps anything else as a PersistenceError.
func WrapPersistence(message string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return NewPersistenceError(message, err)
}

// KindOf returns the kind of err, or KindPersistence for errors that are not
// DomainErrors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

func kindForCode(code string) ErrorKind {
	switch code {
	case "NOT_FOUND":
		return KindNotFound
	case "ALREADY_EXISTS", "CONCURRENCY_CONFLICT", "OPTIMISTIC_LOCK_FAILED", "INSUFFICIENT_STOCK", "INVALID_STATE":
		return KindConflict
	case "UNAUTHORIZED":
		return KindUnauthorized
	default:
		return KindValidation
	}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewUnauthorizedError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewConflictError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewConflictError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrHasDependents       = NewConflictError("HAS_DEPENDENTS", "Resource is referenced by other records")
)

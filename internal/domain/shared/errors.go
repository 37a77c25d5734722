// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState = errors.New("invalid state")

	// Storage errors
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrTimeout             = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "recognition", "ledger"
	Op      string // Operation that failed, e.g., "Create", "Endorse"
	Kind    error  // Base error type for errors.Is() checking
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

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
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

// Student domain errors
var (
	ErrStudentNotFound    = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrSenderNotFound     = NewDomainError("student", "Find", ErrNotFound, "sender not found")
	ErrReceiverNotFound   = NewDomainError("student", "Find", ErrNotFound, "receiver not found")
	ErrEndorserNotFound   = NewDomainError("student", "Find", ErrNotFound, "endorser not found")
	ErrInvalidStudentName = NewDomainError("student", "Validate", ErrEmptyValue, "student name cannot be empty")
)

// Recognition domain errors
var (
	ErrRecognitionNotFound  = NewDomainError("recognition", "Find", ErrNotFound, "recognition not found")
	ErrSelfTransfer         = NewDomainError("recognition", "Create", ErrInvalidInput, "cannot send credits to yourself")
	ErrDuplicateEndorsement = NewDomainError("recognition", "Endorse", ErrAlreadyExists, "recognition already endorsed by this student")
)

// Ledger domain errors
var (
	ErrInvalidCreditAmount   = NewDomainError("ledger", "Validate", ErrValueOutOfRange, "credit amount must be positive")
	ErrInsufficientBalance   = NewDomainError("ledger", "Debit", ErrInvalidState, "insufficient balance")
	ErrMonthlyLimitExceeded  = NewDomainError("ledger", "Debit", ErrValueOutOfRange, "monthly send limit exceeded")
	ErrInvalidResetMonth     = NewDomainError("ledger", "Validate", ErrValueOutOfRange, "reset month must be between 1 and 12")
	ErrInvalidCarriedForward = NewDomainError("ledger", "Validate", ErrValueOutOfRange, "carried forward amount out of range")
)

// Leaderboard domain errors
var (
	ErrInvalidLeaderboardLimit = NewDomainError("leaderboard", "Validate", ErrValueOutOfRange, "limit must be positive")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsDomainFailure reports whether the error is a business-rule rejection that
// the caller can correct, as opposed to an infrastructure failure.
func IsDomainFailure(err error) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return !IsTransient(err)
}

// IsTransient checks if the error comes from the storage layer and the
// operation may be retried as-is.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrTransactionConflict) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrTimeout)
}

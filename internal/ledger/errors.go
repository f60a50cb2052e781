package ledger

import (
	"errors"
	"fmt"
)

// DomainError represents a validation or fund-sufficiency failure detected
// inside a pure transform. Domain errors abort the command synchronously;
// no snapshot is persisted when one is returned.
type DomainError struct {
	// Code identifies the error category.
	Code DomainErrorCode

	// Message is a human-readable description.
	Message string

	// Entity names the kind of object involved ("transaction", "envelope").
	Entity string

	// ID identifies the specific object, when known.
	ID string
}

// DomainErrorCode categorizes domain errors.
type DomainErrorCode string

const (
	// ErrCodeValidation indicates malformed command input, e.g. a blank or
	// duplicate envelope name.
	ErrCodeValidation DomainErrorCode = "VALIDATION"

	// ErrCodeNotFound indicates a reference to a transaction or envelope id
	// absent from the snapshot.
	ErrCodeNotFound DomainErrorCode = "NOT_FOUND"

	// ErrCodeInsufficientAvailableFunds indicates an allocation larger than
	// the available-to-assign pool.
	ErrCodeInsufficientAvailableFunds DomainErrorCode = "INSUFFICIENT_AVAILABLE_FUNDS"

	// ErrCodeInsufficientEnvelopeFunds indicates a strict-policy spend
	// larger than the envelope balance.
	ErrCodeInsufficientEnvelopeFunds DomainErrorCode = "INSUFFICIENT_ENVELOPE_FUNDS"
)

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation returns true for validation errors. Handles wrapped errors.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsNotFound returns true for missing-reference errors. Handles wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsInsufficientFunds returns true for either fund-sufficiency error.
// Handles wrapped errors.
func IsInsufficientFunds(err error) bool {
	return hasCode(err, ErrCodeInsufficientAvailableFunds) ||
		hasCode(err, ErrCodeInsufficientEnvelopeFunds)
}

func hasCode(err error, code DomainErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewValidationError creates a DomainError for malformed input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message}
}

// NewNotFoundError creates a DomainError for a dangling reference.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: entity + " not found",
		Entity:  entity,
		ID:      id,
	}
}

// NewInsufficientAvailableFundsError creates a DomainError for an
// allocation that exceeds the available pool.
func NewInsufficientAvailableFundsError(envelopeID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientAvailableFunds,
		Message: "not enough available funds to allocate",
		Entity:  "envelope",
		ID:      envelopeID,
	}
}

// NewInsufficientEnvelopeFundsError creates a DomainError for a strict
// spend that exceeds the envelope balance.
func NewInsufficientEnvelopeFundsError(envelopeID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientEnvelopeFunds,
		Message: "envelope does not have enough funds",
		Entity:  "envelope",
		ID:      envelopeID,
	}
}

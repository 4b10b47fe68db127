package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/leitner/internal/domain/leitner"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a review event recorded twice).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidDeckName is returned when a deck name is empty or malformed.
	ErrInvalidDeckName = errors.New("invalid deck name")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrReviewNotFound indicates that the requested review event does not exist.
	ErrReviewNotFound = fmt.Errorf("%w: review event", ErrNotFound)

	// ErrDuplicateReview indicates that a review event with the same ID already exists.
	ErrDuplicateReview = fmt.Errorf("%w: review event", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "deck", "review")
	Operation string // The operation that failed (e.g., "load", "save")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ValidateDeckName checks that a deck name is usable as a key in every backend
// (including as a file name component).
func ValidateDeckName(deck string) error {
	if strings.TrimSpace(deck) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDeckName)
	}
	if len(deck) > 128 {
		return fmt.Errorf("%w: name longer than 128 characters", ErrInvalidDeckName)
	}
	if strings.ContainsAny(deck, `/\`) || deck == "." || deck == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidDeckName, deck)
	}
	return nil
}

// ValidateBuckets wraps leitner.BucketMap.Validate failures in ErrInvalidEntity.
func ValidateBuckets(buckets leitner.BucketMap) error {
	if err := buckets.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}

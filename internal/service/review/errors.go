package review

import (
	"errors"
	"fmt"
)

// Common error types for the review service
var (
	// ErrCardNotFound indicates that no card in the deck has the given fingerprint.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardExists indicates that an identical card is already in the deck.
	ErrCardExists = errors.New("card already in deck")

	// ErrInvalidDay indicates a negative scheduler day.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidDifficulty indicates a difficulty other than wrong, hard or easy.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidCard indicates a card that fails validation.
	ErrInvalidCard = errors.New("invalid card")

	// ErrNoHint indicates that the card cannot provide a hint.
	ErrNoHint = errors.New("card has no hint")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_card", "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Operation names used in ServiceError.
const (
	OpAddCard      = "add_card"
	OpDueCards     = "due_cards"
	OpSubmitReview = "submit_review"
	OpProgress     = "progress"
	OpBucketRange  = "bucket_range"
	OpHint         = "hint"
	OpHistory      = "history"
	OpRebuild      = "rebuild"
	OpDecks        = "decks"
)

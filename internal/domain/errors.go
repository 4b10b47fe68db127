// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedCard is returned when a card is missing its front, back or hint.
	ErrMalformedCard = errors.New("malformed card")

	// ErrInvalidDifficulty is returned when a difficulty value is outside the
	// Wrong..Easy range or cannot be parsed.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidFingerprint is returned when a fingerprint string cannot be decoded.
	ErrInvalidFingerprint = errors.New("invalid card fingerprint")

	// ErrInvalidReviewEvent is returned when a review event fails validation.
	ErrInvalidReviewEvent = errors.New("invalid review event")
)

package leitner

import "errors"

// Common errors
var (
	// ErrNegativeBucket is returned when a BucketMap contains a negative bucket number.
	ErrNegativeBucket = errors.New("bucket number cannot be negative")

	// ErrNegativeDay is returned when a negative day is passed to the scheduler.
	ErrNegativeDay = errors.New("day cannot be negative")

	// ErrDuplicateCard is returned when the same card occupies more than one bucket.
	ErrDuplicateCard = errors.New("card appears in more than one bucket")

	// ErrInvalidParams is returned when scheduler parameters are out of range.
	ErrInvalidParams = errors.New("invalid scheduler parameters")
)

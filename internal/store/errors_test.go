package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("failed to do something: %w", ErrNotFound), true},
		{"ErrReviewNotFound", ErrReviewNotFound, true},
		{"duplicate is not not-found", ErrDuplicateReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicateReview))
	assert.True(t, IsDuplicateError(fmt.Errorf("wrapped: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
}

func TestStoreError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewStoreError("deck", "save", "could not write", inner)

	assert.Equal(t, "save operation on deck failed: could not write: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("deck", "load", "bad header", nil)
	assert.Equal(t, "load operation on deck failed: bad header", bare.Error())
}

func TestValidateDeckName(t *testing.T) {
	for _, name := range []string{"french", "Go Basics", "deck-1"} {
		assert.NoError(t, ValidateDeckName(name), name)
	}
	for _, name := range []string{"", "   ", "a/b", `a\b`, "..", "."} {
		assert.ErrorIs(t, ValidateDeckName(name), ErrInvalidDeckName, name)
	}
}

func TestValidateBuckets(t *testing.T) {
	c := domain.Card{Front: "Q", Back: "A"}

	assert.NoError(t, ValidateBuckets(leitner.BucketMap{0: leitner.NewCardSet(c)}))

	err := ValidateBuckets(leitner.BucketMap{0: leitner.NewCardSet(c), 1: leitner.NewCardSet(c)})
	assert.ErrorIs(t, err, ErrInvalidEntity)
	assert.ErrorIs(t, err, leitner.ErrDuplicateCard)
}

package leitner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPractice(t *testing.T) {
	t.Parallel() // Enable parallel execution

	q0, q1a, q1b, q3 := card("q0"), card("q1a"), card("q1b"), card("q3")
	sets := []CardSet{
		NewCardSet(q0),
		NewCardSet(q1a, q1b),
		{},
		NewCardSet(q3),
	}

	testCases := []struct {
		name     string
		day      int
		expected CardSet
	}{
		{"day 0 picks bucket 0", 0, NewCardSet(q0)},
		{"day 1 picks bucket 1 only", 1, NewCardSet(q1a, q1b)},
		{"empty bucket yields empty set", 2, CardSet{}},
		{"last bucket", 3, NewCardSet(q3)},
		{"day past the last bucket yields empty set", 4, CardSet{}},
		{"far future day", 1000, CardSet{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			due, err := Practice(sets, tc.day)
			require.NoError(t, err)
			require.NotNil(t, due)
			assert.Equal(t, tc.expected, due)
		})
	}
}

func TestPracticeRejectsNegativeDay(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := Practice([]CardSet{NewCardSet(card("q"))}, -1)
	assert.ErrorIs(t, err, ErrNegativeDay)
}

func TestPracticeDoesNotMutate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	q := card("q")
	sets := []CardSet{NewCardSet(q)}

	due, err := Practice(sets, 0)
	require.NoError(t, err)
	due.Remove(q)

	assert.True(t, sets[0].Contains(q))
}

func TestPracticeOnEmptySequence(t *testing.T) {
	t.Parallel() // Enable parallel execution

	due, err := Practice([]CardSet{}, 0)
	require.NoError(t, err)
	assert.Empty(t, due)
}

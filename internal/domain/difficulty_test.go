package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyOrdering(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Less(t, Wrong, Hard)
	assert.Less(t, Hard, Easy)
	assert.Equal(t, []Difficulty{Wrong, Hard, Easy}, Difficulties())
}

func TestParseDifficulty(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		input    string
		expected Difficulty
		wantErr  bool
	}{
		{"wrong", Wrong, false},
		{"Hard", Hard, false},
		{" EASY ", Easy, false},
		{"good", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			d, err := ParseDifficulty(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestDifficultyText(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Equal(t, "hard", Hard.String())
	assert.Equal(t, "Difficulty(7)", Difficulty(7).String())
	assert.False(t, Difficulty(-1).IsValid())

	data, err := json.Marshal(struct {
		D Difficulty `json:"d"`
	}{Easy})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"easy"}`, string(data))

	var decoded struct {
		D Difficulty `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"wrong"}`), &decoded))
	assert.Equal(t, Wrong, decoded.D)

	_, err = json.Marshal(Difficulty(9))
	assert.Error(t, err)
}

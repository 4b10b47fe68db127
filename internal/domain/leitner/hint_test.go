package leitner

import (
	"testing"

	"github.com/phrazzld/leitner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHint(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name    string
		card    domain.Card
		want    string
		wantErr bool
	}{
		{"complete card", domain.Card{Front: "Q", Back: "A", Hint: "H"}, "H", false},
		{"hint returned verbatim", domain.Card{Front: "Q", Back: "A", Hint: "  spaced  "}, "  spaced  ", false},
		{"missing front", domain.Card{Back: "A", Hint: "H"}, "", true},
		{"missing back", domain.Card{Front: "Q", Hint: "H"}, "", true},
		{"missing hint", domain.Card{Front: "Q", Back: "A"}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hint, err := GetHint(tc.card)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedCard)
				assert.Empty(t, hint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, hint)
		})
	}
}

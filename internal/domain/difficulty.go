package domain

import (
	"encoding"
	"fmt"
	"strings"
)

// Difficulty is the self-reported outcome of a single review of a card.
// Values are ordered: Wrong < Hard < Easy.
type Difficulty int

const (
	// Wrong means the card was not recalled. The card is reset to bucket 0.
	Wrong Difficulty = iota
	// Hard means the card was recalled with effort.
	Hard
	// Easy means the card was recalled effortlessly.
	Easy
)

var difficultyNames = [...]string{Wrong: "wrong", Hard: "hard", Easy: "easy"}

var (
	_ fmt.Stringer             = Difficulty(0)
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
)

// Difficulties lists every valid difficulty in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Wrong, Hard, Easy}
}

// ParseDifficulty converts a case-insensitive name ("wrong", "hard", "easy")
// into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range difficultyNames {
		if n == name {
			return Difficulty(d), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// IsValid reports whether d is one of Wrong, Hard or Easy.
func (d Difficulty) IsValid() bool {
	return d >= Wrong && d <= Easy
}

// String returns the lowercase name of the difficulty.
// For invalid values it returns "Difficulty(n)".
func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return []byte(difficultyNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

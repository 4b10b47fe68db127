package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Card represents a flashcard: a question on the front, the answer on the
// back, an optional hint and optional tags.
//
// A card's identity is structural. Two cards with identical front, back, hint
// and tags (in the same order) are the same logical card. Cards are treated as
// immutable values once created; use Fingerprint as the map key wherever a
// card needs set membership.
type Card struct {
	Front string   `json:"front" yaml:"front"`
	Back  string   `json:"back"  yaml:"back"`
	Hint  string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// NewCard creates a Card, copying the tags so later changes to the caller's
// slice cannot alter the card's identity.
// Returns an error if validation fails.
func NewCard(front, back, hint string, tags ...string) (Card, error) {
	card := Card{
		Front: front,
		Back:  back,
		Hint:  hint,
		Tags:  slices.Clone(tags),
	}

	if err := card.Validate(); err != nil {
		return Card{}, err
	}

	return card, nil
}

// Validate checks that the card has the content required to be reviewed.
// The hint and tags are optional.
func (c Card) Validate() error {
	if strings.TrimSpace(c.Front) == "" {
		return fmt.Errorf("%w: card front cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(c.Back) == "" {
		return fmt.Errorf("%w: card back cannot be empty", ErrValidation)
	}
	for i, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: card tag %d cannot be empty", ErrValidation, i)
		}
	}
	return nil
}

// Clone returns a copy of the card that shares no memory with c.
func (c Card) Clone() Card {
	c.Tags = slices.Clone(c.Tags)
	return c
}

// Equal reports whether c and other are the same logical card.
func (c Card) Equal(other Card) bool {
	return c.Front == other.Front &&
		c.Back == other.Back &&
		c.Hint == other.Hint &&
		slices.Equal(c.Tags, other.Tags)
}

// Fingerprint returns the structural identity of the card.
//
// Every field is written with a length prefix before hashing, so
// {"ab", "c"} and {"a", "bc"} never collide.
func (c Card) Fingerprint() Fingerprint {
	// blake2b.New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)

	var lenBuf [binary.MaxVarintLen64]byte
	write := func(s string) {
		n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:n])
		h.Write([]byte(s))
	}

	write(c.Front)
	write(c.Back)
	write(c.Hint)

	n := binary.PutUvarint(lenBuf[:], uint64(len(c.Tags)))
	h.Write(lenBuf[:n])
	for _, tag := range c.Tags {
		write(tag)
	}

	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// Fingerprint is the BLAKE2b-256 digest of a card's content fields.
type Fingerprint [blake2b.Size256]byte

// ParseFingerprint decodes the hex form produced by Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	if len(s) != hex.EncodedLen(len(fp)) {
		return Fingerprint{}, fmt.Errorf("%w: expected %d hex characters, got %d",
			ErrInvalidFingerprint, hex.EncodedLen(len(fp)), len(s))
	}
	if _, err := hex.Decode(fp[:], []byte(s)); err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return fp, nil
}

// String returns the lowercase hex encoding of the fingerprint.
func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:])
}

// Short returns the first 12 hex characters, for log lines and CLI output.
func (fp Fingerprint) Short() string {
	return fp.String()[:12]
}

// IsZero reports whether fp is the zero value.
func (fp Fingerprint) IsZero() bool {
	return fp == Fingerprint{}
}

// MarshalText implements encoding.TextMarshaler.
func (fp Fingerprint) MarshalText() ([]byte, error) {
	return []byte(fp.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (fp *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := ParseFingerprint(string(text))
	if err != nil {
		return err
	}
	*fp = parsed
	return nil
}

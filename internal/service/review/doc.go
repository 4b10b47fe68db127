// Package review provides the deck-level review workflow: adding cards,
// listing what is due on a day, recording review outcomes and reporting
// progress. It combines a store.DeckStore with the leitner scheduler and is
// the single writer of deck state.
package review

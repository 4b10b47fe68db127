// Package domain contains the core entities and value objects of the scheduler:
// flashcards, review difficulties and review events. It has no dependency on
// storage, transport or any other infrastructure.
package domain

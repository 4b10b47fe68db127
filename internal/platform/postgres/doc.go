// Package postgres provides the PostgreSQL implementation of store.DeckStore.
// It handles database connections, embedded schema migrations, query
// execution and mapping between bucket state and database rows.
package postgres

// Package store defines interfaces for deck persistence.
// These interfaces abstract the underlying storage mechanism from the
// scheduler, so bucket state can live in memory, in a YAML file or in
// PostgreSQL without the review logic knowing which.
package store

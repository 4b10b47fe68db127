// Package memory provides an in-process implementation of store.DeckStore.
// State lives only as long as the process; it backs the "memory" storage
// driver and the service and API tests.
package memory

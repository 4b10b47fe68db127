// Package api exposes the review service over HTTP. Routes live under
// /api/decks/{deck}; request bodies and responses are JSON, and errors are
// returned as {"error": ..., "trace_id": ...}.
package api

// Package auth issues and validates the bearer tokens that guard the HTTP API.
// Tokens are HS256-signed JWTs; a token may be limited to a set of decks.
package auth

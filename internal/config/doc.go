// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings of the server, the CLI and the storage
// backends while keeping configuration details separate from scheduling logic.
package config

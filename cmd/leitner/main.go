// Package main implements the leitner command: a Leitner box scheduler for
// flashcard decks, usable from the shell or as an HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

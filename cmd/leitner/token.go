package main

import (
	"errors"
	"fmt"

	"github.com/phrazzld/leitner/internal/service/auth"
	"github.com/spf13/cobra"
)

func (c *cli) tokenCmd() *cobra.Command {
	var (
		subject string
		scope   []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long: `Issue a bearer token for the HTTP API, signed with auth.jwt_secret.

Without --scope the token grants access to every deck.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.cfg.Auth.Enabled() {
				return errors.New("auth.jwt_secret is not configured")
			}
			tokens, err := auth.NewTokenService(c.cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize token service: %w", err)
			}
			token, err := tokens.GenerateToken(cmd.Context(), subject, scope)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(map[string]any{"token": token, "decks": scope})
			}
			c.printf("%s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().StringSliceVar(&scope, "scope", nil, "decks the token may access (repeatable)")
	return cmd
}

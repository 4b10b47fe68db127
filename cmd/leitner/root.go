package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/phrazzld/leitner/internal/config"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/spf13/cobra"
)

const defaultDeck = "default"

// cli carries the state shared by every subcommand. cfg and logger are
// filled in by the root command's PersistentPreRunE.
type cli struct {
	configPath string
	envFile    string
	deck       string
	jsonOutput bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "leitner",
		Short:         "Leitner box scheduler for flashcard decks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default ./config.yaml if present)")
	flags.StringVar(&c.envFile, "env-file", ".env", "file of environment variables to load")
	flags.StringVarP(&c.deck, "deck", "d", defaultDeck, "deck to operate on")
	flags.BoolVar(&c.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		c.serveCmd(),
		c.addCmd(),
		c.cardsCmd(),
		c.dueCmd(),
		c.reviewCmd(),
		c.progressCmd(),
		c.hintCmd(),
		c.historyCmd(),
		c.rebuildCmd(),
		c.decksCmd(),
		c.migrateCmd(),
		c.tokenCmd(),
	)
	return root
}

// setup loads the environment file, the configuration and the logger.
// A missing default .env file is ignored; a missing explicit one is not.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(c.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.SetupWithWriter(cfg.Server, c.errOut)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	c.cfg = cfg
	c.logger = log.With(slog.String("command", cmd.Name()))
	c.logger.Debug("configuration loaded",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("auth_enabled", cfg.Auth.Enabled()))
	return nil
}

// withApp builds the application for one command run and tears it down after.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	ctx := cmd.Context()
	app, err := newApplication(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer app.cleanup()
	return fn(ctx, app)
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

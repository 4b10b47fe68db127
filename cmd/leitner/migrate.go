package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/leitner/internal/config"
	"github.com/phrazzld/leitner/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	commands := postgres.MigrateCommands()
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(commands, "|") + "]",
		Short:     "Run database migrations for the postgres driver",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			if c.cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations require the %s storage driver, configured driver is %s",
					config.DriverPostgres, c.cfg.Storage.Driver)
			}
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				return postgres.Migrate(ctx, app.db, command, app.logger)
			})
		},
	}
}

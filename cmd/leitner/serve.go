package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/leitner/internal/api"
	"github.com/phrazzld/leitner/internal/service/auth"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				var tokens auth.TokenService
				if app.config.Auth.Enabled() {
					var err error
					tokens, err = auth.NewTokenService(app.config.Auth)
					if err != nil {
						return fmt.Errorf("failed to initialize token service: %w", err)
					}
					app.logger.Info("API authentication enabled",
						slog.Int("token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes))
				}

				router := api.NewRouter(api.RouterConfig{
					Reviews: app.reviews,
					Tokens:  tokens,
					Logger:  app.logger,
				})
				return runServer(ctx, fmt.Sprintf(":%d", app.config.Server.Port), router, app.logger)
			})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// runServer serves handler on addr until ctx is canceled or the process
// receives SIGINT or SIGTERM, then shuts down gracefully.
func runServer(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case sig := <-shutdownCh:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("server context canceled, shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server failed", slog.String("error", err.Error()))
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server shutdown completed")
	return nil
}

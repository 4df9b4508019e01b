package cli

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

	"github.com/spf13/cobra"

	"github.com/alanyang/agent-status/internal/config"
	"github.com/alanyang/agent-status/internal/wire"
)

var servePort int

func newServeCmd(use string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Run the HTTP, websocket and MCP server",
		Long: `Run the agent-status server.

Configuration is read from agentstatus.yml, then the PORT, DATABASE_URL,
LOG_LEVEL and REAPER_GRACE_SECONDS environment variables, then flags.
The log level is reloaded when the config file changes.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	var overrides config.Overrides
	if GlobalOpts.ConfigFile != "" {
		overrides.ConfigFile = &GlobalOpts.ConfigFile
	}
	if cmd.Flags().Changed("port") {
		overrides.Port = &servePort
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level.Set(cfg.LogLevel)
	cfg.Watch(func(next *config.Config) { level.Set(next.LogLevel) })

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := wire.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP + MCP server listening", "addr", app.Server.Addr, "config", cfg.File())
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			slog.Error("HTTP server error", "error", serveErr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("agent-status server stopped")
	return serveErr
}

func init() {
	rootCmd.AddCommand(newServeCmd("serve"))
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/adapter/cli/client"
	"github.com/felixgeelhaar/trainbook/adapter/cli/schedule"
	"github.com/felixgeelhaar/trainbook/internal/app"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/pkg/config"
	"github.com/felixgeelhaar/trainbook/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.Output = os.Stderr
	logCfg.ContextAttrs = correlationAttrs
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Set the CLI app
	cli.SetApp(cli.NewApp(container))

	// Register commands
	cli.AddCommand(client.Cmd)
	cli.AddCommand(schedule.Cmd)

	// Execute CLI
	if err := cli.Run(ctx); err != nil {
		container.Close()
		os.Exit(1)
	}
}

func correlationAttrs(ctx context.Context) []slog.Attr {
	id, ok := sharedApplication.CorrelationIDFromContext(ctx)
	if !ok {
		return nil
	}
	return []slog.Attr{slog.String("correlation_id", id.String())}
}

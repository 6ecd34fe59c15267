package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/app"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/trainbook/pkg/config"
	"github.com/felixgeelhaar/trainbook/pkg/observability"
	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker/v2"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.Output = os.Stdout
	logCfg.ServiceName = "trainbook-worker"
	logger := observability.NewLogger(logCfg)

	logger.Info("starting trainbook worker")

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// With a broker, roster invalidation arrives through the worker queue.
	if cfg.RabbitMQURL != "" {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: cfg.RabbitMQQueue,
			Exchange:  cfg.RabbitMQExchange,
			Logger:    logger,
		}, eventbus.NewConsumerRegistry(logger))
		if err != nil {
			logger.Error("failed to create event consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()
		for _, c := range container.Consumers() {
			consumer.RegisterConsumer(c)
		}

		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("event consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	processor := container.OutboxProcessor
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	scheduler, err := startCleanup(ctx, cfg, processor, logger)
	if err != nil {
		logger.Error("invalid OUTBOX_CLEANUP_SCHEDULE", "schedule", cfg.OutboxCleanupSchedule, "error", err)
		os.Exit(1)
	}
	defer func() { <-scheduler.Stop().Done() }()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	statsTicker := time.NewTicker(cfg.OutboxStatsInterval)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				stats := processor.GetStats()
				logger.Info("outbox stats",
					"running", stats.IsRunning,
					"published", stats.PublishedCount,
					"failed", stats.FailedCount,
					"dead", stats.DeadCount,
					"lag_seconds", stats.LagSeconds,
					"oldest_message_at", stats.OldestMessageAt,
					"last_processed_at", stats.LastProcessedAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
				)
			}
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")

	fmt.Println("Goodbye!")
}

// startCleanup removes published outbox messages older than the retention
// period on the configured cron schedule.
func startCleanup(ctx context.Context, cfg *config.Config, processor *outbox.Processor, logger *slog.Logger) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.OutboxCleanupSchedule, func() {
		if _, err := processor.Cleanup(ctx, cfg.OutboxRetentionDays); err != nil {
			logger.Error("outbox cleanup failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

func healthMux(container *app.Container) *http.ServeMux {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.DatabaseHealthChecker(container.Ping))
	if container.RedisClient != nil {
		registry.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}
	if container.Breaker != nil {
		registry.Register("publisher", breakerChecker(container.Breaker))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProcessor.GetStats()
		response := map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
	mux.Handle("/readyz", registry.Handler(2*time.Second))
	return mux
}

// breakerChecker degrades while the publisher circuit is open; the outbox
// keeps events until the broker is back.
func breakerChecker(breaker *eventbus.CircuitBreakerPublisher) observability.HealthChecker {
	return func(ctx context.Context) observability.HealthCheckResult {
		state := breaker.State()
		result := observability.HealthCheckResult{
			Status:  observability.HealthStatusHealthy,
			Message: "publisher circuit " + state.String(),
		}
		if state != gobreaker.StateClosed {
			result.Status = observability.HealthStatusDegraded
		}
		return result
	}
}

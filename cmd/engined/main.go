// Package main is the entry point for the hydromon engine daemon.
//
// It loads configuration, opens the selected document store backend, wires
// the water log, risk history, profile store, alert channels, and telemetry
// into the engine, runs the launch evaluation, and serves the HTTP API with
// an optional recurring refresh ticker until a shutdown signal arrives.
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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"golang.org/x/sync/errgroup"

	"hydromon/internal/alerts"
	"hydromon/internal/api"
	"hydromon/internal/config"
	"hydromon/internal/engine"
	"hydromon/internal/history"
	"hydromon/internal/profile"
	"hydromon/internal/storage"
	"hydromon/internal/telemetry"
	"hydromon/internal/types"
	"hydromon/internal/waterlog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	typedLogger := &slogAdapter{logger: logger}
	logger.Info("hydromon engine starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := types.RealClock{}

	docs, closeDocs, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer closeDocs()

	var sink history.ArchiveSink
	if cfg.Storage.ArchiveDir != "" {
		archiver, err := history.NewFileArchiver(cfg.Storage.ArchiveDir, clock)
		if err != nil {
			return fmt.Errorf("creating risk archiver: %w", err)
		}
		sink = archiver
	}

	water := waterlog.NewStore(ctx, docs, clock, typedLogger.With("component", "waterlog"), waterlog.Config{
		RetentionDays:  cfg.Engine.RetentionDays,
		SegmentWeights: cfg.Engine.SegmentWeights,
	})
	hist := history.NewStore(ctx, docs, clock, typedLogger.With("component", "history"), sink, history.Config{
		RetentionDays: cfg.Engine.RetentionDays,
	})
	profiles := profile.NewStore(ctx, docs, typedLogger.With("component", "profile"))

	dispatcher, err := buildDispatcher(ctx, cfg, clock, typedLogger)
	if err != nil {
		return fmt.Errorf("wiring alert channels: %w", err)
	}

	metrics, err := buildMetrics(ctx, cfg.Telemetry, typedLogger)
	if err != nil {
		return fmt.Errorf("wiring telemetry: %w", err)
	}

	eng := engine.New(ctx, cfg.Engine, engine.Deps{
		Docs:     docs,
		Water:    water,
		History:  hist,
		Profiles: profiles,
		Clock:    clock,
		Logger:   typedLogger.With("component", "engine"),
		Sink:     dispatcher,
		Metrics:  metrics,
	})

	srv, err := api.NewServer(eng, water, hist, profiles, typedLogger.With("component", "api"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.MountRoutes()

	eng.OnAppLaunch(ctx)

	return serve(ctx, cfg, srv.Handler(), eng, logger)
}

// serve runs the HTTP server and the optional refresh ticker until the
// context is cancelled, then shuts the server down gracefully.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, eng *engine.Engine, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	if cfg.Engine.RefreshInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Engine.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					eng.OnPeriodicTick(gctx)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped cleanly")
	return nil
}

// openStorage opens the configured document store backend and returns it
// with its cleanup function.
func openStorage(ctx context.Context, cfg config.StorageConfig) (types.DocumentStore, func(), error) {
	switch cfg.Backend {
	case "postgres":
		pool, store, err := storage.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return store, pool.Close, nil
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	default:
		store, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

// buildDispatcher wires the configured alert channels. With neither a
// webhook URL nor a queue URL set, the dispatcher is log-only.
func buildDispatcher(ctx context.Context, cfg *config.Config, clock types.Clock, logger types.Logger) (*alerts.Dispatcher, error) {
	var channels []alerts.Channel

	if cfg.Alerts.WebhookURL != "" {
		channels = append(channels, alerts.NewWebhookChannel(alerts.WebhookConfig{
			URL:       cfg.Alerts.WebhookURL,
			Secret:    cfg.Alerts.WebhookSecret,
			UserAgent: cfg.Alerts.UserAgent,
			Timeout:   cfg.Alerts.WebhookTimeout,
		}, clock))
	}

	if cfg.Alerts.QueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Telemetry.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("loading AWS SDK config: %w", err)
		}
		channels = append(channels, alerts.NewSQSChannel(sqs.NewFromConfig(awsCfg), cfg.Alerts.QueueURL))
	}

	return alerts.NewDispatcher(logger.With("component", "alerts"), channels...), nil
}

// buildMetrics wires CloudWatch metrics when enabled, else a no-op recorder.
func buildMetrics(ctx context.Context, cfg config.TelemetryConfig, logger types.Logger) (telemetry.EngineMetrics, error) {
	if !cfg.EnableCloudWatch {
		return telemetry.NoopMetrics{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("loading AWS SDK config: %w", err)
	}
	return telemetry.NewCloudWatchMetrics(cloudwatch.NewFromConfig(awsCfg), cfg.MetricNamespace, logger.With("component", "telemetry")), nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// Compile-time assertion that slogAdapter implements types.Logger.
var _ types.Logger = (*slogAdapter)(nil)

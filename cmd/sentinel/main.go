// @title Sentinel Console API
// @version 1.0
// @description Session-scoped console for the Sentinel predictive-maintenance service.
// @BasePath /
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/sentinel-console/api"
	"github.com/OldStager01/sentinel-console/internal/alerts"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/console"
	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/internal/metrics"
	"github.com/OldStager01/sentinel-console/internal/resilience"
	"github.com/OldStager01/sentinel-console/pkg/config"
	"github.com/OldStager01/sentinel-console/pkg/database"
	"github.com/OldStager01/sentinel-console/pkg/database/queries"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	m := metrics.Get()
	deps := api.Dependencies{Metrics: m}

	var recorder events.RunRecorder
	if cfg.Database.Enabled {
		db, err := database.New(cfg.Database.ToDBConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.WithField("driver", db.Driver()).Info("Database connection established")

		if err := runMigrations(cfg, db); err != nil {
			return err
		}
		if *migrate {
			return nil
		}

		repo := queries.NewDiagnosticRunRepository(db)
		recorder = repo
		deps.DB = db
		deps.Runs = repo
	} else if *migrate {
		return fmt.Errorf("database is disabled; nothing to migrate")
	}

	upstream := newUpstreamClient(cfg, m)
	defer upstream.Close()
	deps.Upstream = upstream

	manager := console.NewManager(console.ManagerConfig{
		Config: console.Config{
			Diagnostic: diagnostic.Config{
				FeatureDelay:    cfg.Diagnostic.FeatureDelay,
				InferenceDelay:  cfg.Diagnostic.InferenceDelay,
				CompletionDelay: cfg.Diagnostic.CompletionDelay,
				LogCapacity:     cfg.Diagnostic.LogCapacity,
			},
			PageSize:      cfg.History.PageSize,
			IdleTTL:       cfg.Session.IdleTTL,
			SweepInterval: cfg.Session.SweepInterval,
			EventBuffer:   cfg.Events.BufferSize,
		},
		Client:   upstream,
		Observer: m,
		Recorder: recorder,
	})
	manager.Start()
	defer manager.Stop()
	deps.Consoles = manager

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Alerts.Enabled {
		stopAlerts, err := startAlerts(ctx, cfg.Alerts, manager.SubscribeEvents(models.EventTypeAlert))
		if err != nil {
			return err
		}
		defer stopAlerts()
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled && cfg.Metrics.Port != 0 {
		metricsServer = metrics.StartServer(cfg.Metrics.Port)
	}

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Metrics server shutdown error: %v", err)
		}
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func runMigrations(cfg *config.Config, db *database.DB) error {
	timeout := cfg.Database.MigrationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Running database migrations")
	if err := database.NewMigrator(db).Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}

// newUpstreamClient wraps the inference client, real or canned, in the
// circuit breaker and retry policy.
func newUpstreamClient(cfg *config.Config, m *metrics.Metrics) client.Client {
	var base client.Client
	if cfg.Upstream.Mock {
		logger.Warn("Using canned upstream replies")
		base = client.NewMockClient()
	} else {
		base = client.NewHTTPClient(client.HTTPClientConfig{
			BaseURL:  cfg.Upstream.BaseURL,
			Timeout:  cfg.Upstream.Timeout,
			Observer: m,
		})
	}

	return client.NewResilientClient(client.ResilientClientConfig{
		Client:        base,
		MaxFailures:   cfg.Upstream.CircuitBreaker.MaxFailures,
		Timeout:       cfg.Upstream.CircuitBreaker.Timeout,
		HalfOpenMax:   cfg.Upstream.CircuitBreaker.HalfOpenMax,
		RetryAttempts: cfg.Upstream.RetryAttempts,
		RetryDelay:    cfg.Upstream.RetryDelay,
		OnStateChange: func(name string, _, to resilience.State) {
			m.SetCircuitBreakerState(name, int(to))
		},
	})
}

func startAlerts(ctx context.Context, cfg config.AlertsConfig, alertEvents <-chan *models.Event) (func(), error) {
	mqttClient, err := alerts.NewClient(alerts.ClientConfig{
		Broker:         cfg.Broker,
		ClientID:       cfg.ClientID,
		Username:       cfg.Username,
		Password:       cfg.Password,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start alert publisher: %w", err)
	}

	publisher := alerts.NewPublisher(mqttClient, alerts.PublisherConfig{
		Topic: cfg.Topic,
		QoS:   cfg.QoS,
	}, alertEvents)

	alertCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		publisher.Start(alertCtx)
	}()

	return func() {
		stop()
		<-done
		mqttClient.Close()
		logger.Infof("Alert publisher sent %d, failed %d", publisher.Published(), publisher.Failed())
	}, nil
}

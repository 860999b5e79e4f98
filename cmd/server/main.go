// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/basketry/docs" // Import generated swagger docs

	"github.com/tomtom215/basketry/internal/api"
	"github.com/tomtom215/basketry/internal/audit"
	"github.com/tomtom215/basketry/internal/catalog"
	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/eventprocessor"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/middleware"
	"github.com/tomtom215/basketry/internal/mining"
	"github.com/tomtom215/basketry/internal/recommend"
	"github.com/tomtom215/basketry/internal/supervisor"
	"github.com/tomtom215/basketry/internal/supervisor/services"
	ws "github.com/tomtom215/basketry/internal/websocket"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Basketry with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("source", cfg.Source.Type).
		Float64("min_support", cfg.Mining.MinSupport).
		Float64("min_confidence", cfg.Mining.MinConfidence).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := openOrderSource(ctx, cfg, db)
	if err != nil {
		// Close database before fatal exit to ensure defer runs
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Msg("Failed to open order source")
	}

	// === MINING ===
	store := database.NewAssociationStore(db)
	resolver := catalog.NewResolver(repo, cfg.Mining.NameCacheSize)
	pipeline := mining.NewPipeline(mining.Config{
		MinSupport:     cfg.Mining.MinSupport,
		MinConfidence:  cfg.Mining.MinConfidence,
		Workers:        cfg.Mining.Workers,
		MaxItemsetSize: cfg.Mining.MaxItemsetSize,
	}, repo, store, db, resolver)
	coordinator := mining.NewCoordinator(pipeline)

	recommender := recommend.NewService(recommend.Config{
		DefaultK:  cfg.Recommend.DefaultK,
		MaxK:      cfg.Recommend.MaxK,
		CacheSize: cfg.Recommend.CacheSize,
		CacheTTL:  cfg.Recommend.CacheTTL,
	}, store, db)

	// === EVENTS ===
	wsHub := ws.NewHub()

	busCfg := eventprocessor.DefaultConfig()
	busCfg.NATSEnabled = cfg.Events.NATSEnabled
	if cfg.Events.NATSURL != "" {
		busCfg.NATSURL = cfg.Events.NATSURL
	}
	if cfg.Events.Topic != "" {
		busCfg.Topic = cfg.Events.Topic
	}
	bus, err := eventprocessor.NewBus(busCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	if busCfg.NATSEnabled {
		logging.Info().Str("url", busCfg.NATSURL).Str("topic", busCfg.Topic).Msg("Run events mirrored to NATS")
	}

	// === RUN HISTORY ===
	runStore := audit.NewDuckDBStore(db.Conn())
	if err := runStore.CreateTable(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create run history table")
	}
	history := audit.NewLogger(runStore, audit.Config{
		Enabled:         cfg.History.Enabled,
		RetentionDays:   cfg.History.RetentionDays,
		CleanupInterval: cfg.History.CleanupInterval,
		BufferSize:      cfg.History.BufferSize,
	})
	defer func() {
		if err := history.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run history")
		}
	}()

	bus.Handle("run-history", history.HandleRunEvent)
	bus.Handle("recommendation-cache", func(_ context.Context, ev mining.Event) error {
		if ev.Type == mining.EventCompleted {
			recommender.Invalidate()
		}
		return nil
	})
	bus.Handle("websocket-broadcast", func(ctx context.Context, ev mining.Event) error {
		wsHub.BroadcastRunEvent(ctx, ev)
		return nil
	})
	coordinator.Subscribe(bus.OnRunEvent)

	// === HTTP ===
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS is configured with wildcard origin (CORS_ORIGINS=*) in production")
	}

	handler := api.NewHandler(api.HandlerDeps{
		Mining:      coordinator,
		Recommender: recommender,
		DB:          db,
		Catalog:     resolver,
		Runs:        history,
		Hub:         wsHub,
		Upgrader:    ws.NewUpgrader(cfg.Security.CORSOrigins),
		Performance: middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold),
		Version:     version,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddMessagingService(history)
	logging.Info().Msg("Messaging services added to supervisor tree")

	tree.AddMiningService(services.NewMiningScheduler(coordinator, services.MiningSchedulerConfig{
		RunOnStartup: cfg.Mining.RunOnStartup,
		Interval:     cfg.Mining.ScheduleInterval,
	}, logging.WithComponent("scheduler")))
	logging.Info().
		Bool("run_on_startup", cfg.Mining.RunOnStartup).
		Dur("interval", cfg.Mining.ScheduleInterval).
		Msg("Mining scheduler added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// A run started over the API is detached from every request; give it
	// the shutdown budget before the database closes underneath it.
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer waitCancel()
	if err := coordinator.Wait(waitCtx); err != nil {
		logging.Warn().Err(err).Msg("Mining run still in progress at shutdown")
	}
	if err := db.Checkpoint(waitCtx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openOrderSource seeds or attaches the configured order history and
// returns the repository the pipeline reads from.
func openOrderSource(ctx context.Context, cfg *config.Config, db *database.DB) (*database.OrderRepository, error) {
	switch cfg.Source.Type {
	case config.SourceMySQL:
		if err := db.AttachMySQL(ctx, cfg.Source.MySQLDSN); err != nil {
			return nil, fmt.Errorf("attach mysql source: %w", err)
		}
		logging.Info().Str("table_prefix", cfg.Source.TablePrefix).Msg("WooCommerce database attached")
		return database.NewWooCommerceOrderRepository(db, cfg.Source.TablePrefix), nil

	default:
		if cfg.Source.ImportCSVDir != "" {
			res, err := db.ImportCSV(ctx, cfg.Source.ImportCSVDir)
			if err != nil {
				return nil, fmt.Errorf("import csv: %w", err)
			}
			logging.Info().
				Str("dir", cfg.Source.ImportCSVDir).
				Int64("order_items", res.OrderItems).
				Int64("products", res.Products).
				Msg("Order history imported")
		}
		n, err := db.CountOrderItems(ctx)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			logging.Warn().Msg("Local order_items table is empty; mining runs will finish without rules")
		}
		return database.NewLocalOrderRepository(db), nil
	}
}

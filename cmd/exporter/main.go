package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"system-exporter/internal/enum"
	"system-exporter/internal/export"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/middleware"
	"system-exporter/internal/planet"
	"system-exporter/internal/resource"
	"system-exporter/internal/server"
	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/database"
	"system-exporter/internal/shared/logger"
	"system-exporter/internal/shared/redis"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/stream"
	"system-exporter/internal/system"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.GlobalConfig); err != nil {
		slog.Error("Exporter stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.With("component", "main")
	logger.Info("Starting system exporter",
		"environment", cfg.Server.Environment,
		"output_dir", cfg.Exporter.OutputDir,
		"host_dump", cfg.Host.DumpPath,
	)

	resources, err := resource.NewTable(cfg.Exporter.ResourceLocale)
	if err != nil {
		return fmt.Errorf("failed to load resource table: %w", err)
	}
	logger.Info("Resource table loaded", "locale", resources.Locale(), "entries", resources.Len())

	decoder := enum.NewDecoder(slog.Default())
	extractCtx := extract.NewContext(decoder, resources, slog.Default())
	scorer := planet.NewScorer(planet.RulesFromConfig(cfg.Scoring), decoder, slog.Default())
	builder := snapshot.NewBuilder(extractCtx, scorer)

	store, err := export.NewFileStore(cfg.Exporter.OutputDir, slog.Default())
	if err != nil {
		return err
	}

	hub := stream.NewHub(slog.Default())
	defer hub.Close()

	opts := export.Options{
		CacheTTL:  cfg.Redis.LatestTTL,
		Publisher: hub,
	}

	var db *database.DB
	var archive *export.Archive
	if cfg.Database.Enabled {
		db, err = database.Connect()
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		archive = export.NewArchive(db, slog.Default())
		opts.Archive = archive
	} else {
		logger.Info("Snapshot archive disabled")
	}

	cache, err := redis.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if cache != nil {
		defer cache.Close()
		opts.Cache = cache
	}

	exporter := export.NewService(builder, store, export.NewStateFromConfig(cfg.Exporter), opts, slog.Default())

	watcher := host.NewWatcher(host.NewFileSource(cfg.Host.DumpPath).WithIdentity(system.FieldSystemData, "Name", "Seed"), exporter, cfg.Host.PollInterval, slog.Default())
	go watcher.Run(ctx)

	routes := server.NewRoutes(
		cfg,
		db,
		cache,
		exporter,
		archive,
		hub,
		middleware.NewOperatorAuth(cfg.Auth),
		middleware.NewRateLimiter(ctx, cfg.RateLimit),
		slog.Default(),
	)
	mux := routes.Setup()
	cors := middleware.NewCORS(cfg.Frontend)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr, "url", cfg.Server.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	logger.Info("System exporter stopped", "exports", exporter.Stats(shutdownCtx).TotalExports)
	return nil
}

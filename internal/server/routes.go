package server

import (
	"log/slog"
	"net/http"

	authHandlers "system-exporter/internal/auth/handlers"
	"system-exporter/internal/export"
	exportHandlers "system-exporter/internal/export/handlers"
	"system-exporter/internal/middleware"
	planetHandlers "system-exporter/internal/planet/handlers"
	serverHandlers "system-exporter/internal/server/handlers"
	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/database"
	"system-exporter/internal/shared/redis"
	"system-exporter/internal/stream"
	"system-exporter/internal/system"
	systemHandlers "system-exporter/internal/system/handlers"
)

type Routes struct {
	cfg          *config.Config
	db           *database.DB
	cache        *redis.Client
	exporter     *export.Service
	archive      *export.Archive
	hub          *stream.Hub
	operatorAuth *middleware.OperatorAuth
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

// NewRoutes wires the HTTP surface. db, cache and archive may be nil when the
// corresponding backend is disabled.
func NewRoutes(
	cfg *config.Config,
	db *database.DB,
	cache *redis.Client,
	exporter *export.Service,
	archive *export.Archive,
	hub *stream.Hub,
	operatorAuth *middleware.OperatorAuth,
	rateLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		cfg:          cfg,
		db:           db,
		cache:        cache,
		exporter:     exporter,
		archive:      archive,
		hub:          hub,
		operatorAuth: operatorAuth,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	var snapshots systemHandlers.SnapshotReader
	var planets planetHandlers.PlanetLister
	if r.db != nil && r.archive != nil {
		snapshots = system.NewRepository(r.db, r.logger)
		planets = r.archive
	}

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache, r.exporter)
	exportHandler := exportHandlers.NewExportHandler(r.exporter)
	snapshotHandler := systemHandlers.NewSnapshotHandler(snapshots)
	planetHandler := planetHandlers.NewPlanetHandler(planets)
	sessionHandler := authHandlers.NewSessionHandler(r.cfg)

	protect := func(h http.HandlerFunc) http.Handler {
		return r.rateLimiter.Middleware(r.operatorAuth.Middleware(h))
	}

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/exports/stats", exportHandler.Stats)
	mux.HandleFunc("/api/snapshots/latest", exportHandler.Latest)
	mux.HandleFunc("/api/snapshots/stream", r.hub.Handle)
	mux.HandleFunc("/api/snapshots", snapshotHandler.List)
	mux.HandleFunc("/api/snapshots/{id}", snapshotHandler.Get)
	mux.HandleFunc("/api/snapshots/{id}/planets", planetHandler.GetBySnapshotID)

	// Trigger endpoints (operator token when AUTH_REQUIRED, rate limited)
	mux.Handle("/api/exports", protect(exportHandler.Export))
	mux.Handle("/api/exports/consolidate", protect(exportHandler.Consolidate))
	mux.Handle("/api/exports/auto", protect(exportHandler.AutoExport))
	mux.Handle("/api/debug/structure", protect(exportHandler.DumpStructure))

	// Session endpoints
	mux.HandleFunc("/auth/session", sessionHandler.Create)
	mux.HandleFunc("/auth/logout", sessionHandler.Logout)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/exports/stats", "/api/snapshots/latest", "/api/snapshots/stream", "/api/snapshots", "/api/snapshots/{id}", "/api/snapshots/{id}/planets"},
		"trigger_endpoints", []string{"/api/exports", "/api/exports/consolidate", "/api/exports/auto", "/api/debug/structure"},
		"auth_endpoints", []string{"/auth/session", "/auth/logout"},
		"archive_enabled", snapshots != nil,
	)

	return mux
}

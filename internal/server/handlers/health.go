package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"system-exporter/internal/shared/database"
	"system-exporter/internal/shared/redis"
	"system-exporter/internal/shared/response"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Database   string `json:"database"`
	Cache      string `json:"cache"`
	HostLoaded bool   `json:"host_loaded"`
}

// HostProbe reports whether a host structure has been captured.
type HostProbe interface {
	Loaded() bool
}

type HealthHandler struct {
	db    *database.DB
	cache *redis.Client
	host  HostProbe
}

func NewHealthHandler(db *database.DB, cache *redis.Client, host HostProbe) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, host: host}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "disconnected"
		if err := h.db.PingContext(ctx); err == nil {
			dbStatus = "connected"
		} else {
			logger.Warn("Database ping failed", "error", err)
		}
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "disconnected"
		if err := h.cache.Ping(ctx).Err(); err == nil {
			cacheStatus = "connected"
		} else {
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().Format(time.RFC3339),
		Database:   dbStatus,
		Cache:      cacheStatus,
		HostLoaded: h.host != nil && h.host.Loaded(),
	}

	response.Success(w, http.StatusOK, resp)
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"system-exporter/internal/planet"
	"system-exporter/internal/shared/errors"
	"system-exporter/internal/shared/response"
)

type PlanetLister interface {
	GetPlanetsBySnapshotID(ctx context.Context, snapshotID string) ([]planet.Summary, error)
}

type PlanetHandler struct {
	planets PlanetLister
}

func NewPlanetHandler(planets PlanetLister) *PlanetHandler {
	return &PlanetHandler{planets: planets}
}

func (h *PlanetHandler) GetBySnapshotID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planets_by_snapshot")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	snapshotID := r.PathValue("id")
	if snapshotID == "" {
		response.Error(w, r, logger, errors.Validation("snapshot ID is required"))
		return
	}

	if h.planets == nil {
		response.Error(w, r, logger, errors.Unavailable("snapshot archive is disabled"))
		return
	}

	planets, err := h.planets.GetPlanetsBySnapshotID(ctx, snapshotID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Summary{}
	}

	response.Success(w, http.StatusOK, planets)
}

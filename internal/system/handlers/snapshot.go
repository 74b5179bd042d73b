package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"system-exporter/internal/shared/errors"
	"system-exporter/internal/shared/response"
	"system-exporter/internal/system"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type SnapshotReader interface {
	ListSnapshots(ctx context.Context, limit int) ([]system.ArchiveEntry, error)
	GetSnapshot(ctx context.Context, id string) (*system.ArchiveEntry, error)
}

type SnapshotHandler struct {
	snapshots SnapshotReader
}

func NewSnapshotHandler(snapshots SnapshotReader) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_snapshots")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	if h.snapshots == nil {
		response.Error(w, r, logger, errors.Unavailable("snapshot archive is disabled"))
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			response.Error(w, r, logger, errors.Validationf("limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	entries, err := h.snapshots.ListSnapshots(r.Context(), limit)
	if err != nil {
		response.Error(w, r, logger, errors.WrapExternal("failed to list snapshots", err))
		return
	}

	if entries == nil {
		entries = []system.ArchiveEntry{}
	}

	response.Success(w, http.StatusOK, entries)
}

// Get returns the archived snapshot document.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_snapshot")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		response.Error(w, r, logger, errors.Validation("snapshot ID is required"))
		return
	}

	if h.snapshots == nil {
		response.Error(w, r, logger, errors.Unavailable("snapshot archive is disabled"))
		return
	}

	entry, err := h.snapshots.GetSnapshot(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, json.RawMessage(entry.Payload))
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"system-exporter/internal/export"
	"system-exporter/internal/middleware"
	apperrors "system-exporter/internal/shared/errors"
	"system-exporter/internal/shared/response"
)

type AutoExportRequest struct {
	Enabled *bool `json:"enabled"`
}

type AutoExportResponse struct {
	AutoExport bool `json:"auto_export"`
}

type ExportHandler struct {
	service *export.Service
}

func NewExportHandler(service *export.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export builds and persists the current system.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	logger := operatorLogger(r, "export_now")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	logger.Info("Export requested")
	result, err := h.service.ExportNow(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *ExportHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	logger := operatorLogger(r, "consolidate")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	logger.Info("Consolidation requested")
	result, err := h.service.Consolidate(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

// AutoExport toggles auto-export, or sets it when the body carries "enabled".
func (h *ExportHandler) AutoExport(w http.ResponseWriter, r *http.Request) {
	logger := operatorLogger(r, "auto_export")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	var req AutoExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	var enabled bool
	if req.Enabled != nil {
		h.service.SetAutoExport(*req.Enabled)
		enabled = *req.Enabled
	} else {
		enabled = h.service.ToggleAutoExport()
	}

	logger.Info("Auto-export updated", "enabled", enabled)
	response.Success(w, http.StatusOK, AutoExportResponse{AutoExport: enabled})
}

func (h *ExportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "export_stats")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.service.Stats(r.Context()))
}

func (h *ExportHandler) DumpStructure(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "dump_structure")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	report, err := h.service.DumpStructure()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, report)
}

// Latest serves the most recent exported snapshot document as stored.
func (h *ExportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "latest_snapshot")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	payload, err := h.service.Latest(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, json.RawMessage(payload))
}

// operatorLogger tags trigger requests with the operator that sent them.
func operatorLogger(r *http.Request, handler string) *slog.Logger {
	logger := slog.With("handler", handler)
	if claims := middleware.GetOperatorFromContext(r); claims != nil {
		logger = logger.With("operator", claims.Operator)
	}
	return logger
}

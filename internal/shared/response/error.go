package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"system-exporter/internal/shared/errors"
)

// ErrorResponse is the JSON body of every failed API call. The console
// client decodes it to report failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var statusCodes = map[errors.ErrorType]int{
	errors.ErrorTypeNotFound:         http.StatusNotFound,
	errors.ErrorTypeValidation:       http.StatusBadRequest,
	errors.ErrorTypeMethodNotAllowed: http.StatusMethodNotAllowed,
	errors.ErrorTypeUnavailable:      http.StatusServiceUnavailable,
	errors.ErrorTypeUnauthorized:     http.StatusUnauthorized,
	errors.ErrorTypeExternal:         http.StatusBadGateway,
	errors.ErrorTypeRateLimited:      http.StatusTooManyRequests,
}

// StatusCode maps an error type to its HTTP status. Unknown types are 500.
func StatusCode(errorType errors.ErrorType) int {
	if code, ok := statusCodes[errorType]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error logs err and writes it as a JSON error response.
// This should be the only place where request errors are logged.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := StatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// The status line is already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    statusCode,
	})
}

func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound, errors.ErrorTypeValidation:
		logCtx.Debug("Request rejected", "error", err)
	case errors.ErrorTypeUnauthorized:
		logCtx.Warn("Operator authorization failed", "error", err)
	case errors.ErrorTypeUnavailable, errors.ErrorTypeMethodNotAllowed, errors.ErrorTypeRateLimited:
		logCtx.Info("Request not servable", "error", err)
	case errors.ErrorTypeExternal:
		logCtx.Error("Storage or cache failure", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// Success writes data as a JSON response. A nil data writes only the status.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"system-exporter/internal/auth"
	"system-exporter/internal/middleware"
	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/cookies"
	"system-exporter/internal/shared/errors"
	"system-exporter/internal/shared/response"
)

type SessionResponse struct {
	Operator  string    `json:"operator"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionHandler exchanges a bearer token for the auth cookie.
type SessionHandler struct {
	cfg *config.Config
}

func NewSessionHandler(cfg *config.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_session", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	if !h.cfg.AuthConfigured() {
		response.Error(w, r, logger, errors.Unavailable("operator authentication is not configured"))
		return
	}

	token := middleware.TokenFromRequest(r)
	if token == "" {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	claims, err := auth.ValidateJWT(token, h.cfg.Auth.JWTSecret)
	if err != nil {
		response.Error(w, r, logger, errors.Unauthorized("invalid token"))
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	cookies.SetAuthCookie(w, h.cfg, token, ttl)

	logger.Info("Operator session created", "operator", claims.Operator)
	response.Success(w, http.StatusOK, SessionResponse{Operator: claims.Operator, ExpiresAt: claims.ExpiresAt.Time})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout", "remote_addr", r.RemoteAddr)
	logger.Debug("Logout requested")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	cookies.ClearAuthCookie(w, h.cfg)

	logger.Info("Operator logged out")
	response.Success(w, http.StatusNoContent, nil)
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"system-exporter/internal/auth"
	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/cookies"
	"system-exporter/internal/shared/errors"
	"system-exporter/internal/shared/response"
)

type contextKey string

const OperatorContextKey contextKey = "operator"

// OperatorAuth guards the trigger endpoints with operator tokens.
type OperatorAuth struct {
	secret   string
	required bool
}

func NewOperatorAuth(cfg config.AuthConfig) *OperatorAuth {
	logger := slog.With("component", "operator_auth", "operation", "setup")
	logger.Info("Operator authentication configured", "required", cfg.Required)

	return &OperatorAuth{secret: cfg.JWTSecret, required: cfg.Required}
}

// Middleware validates a bearer token or the auth cookie. When authentication
// is not required, requests pass through untouched.
func (a *OperatorAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.required {
			next.ServeHTTP(w, r)
			return
		}

		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := TokenFromRequest(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateJWT(token, a.secret)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), OperatorContextKey, claims)
		logger.Debug("JWT authentication successful", "operator", claims.Operator)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromRequest returns the bearer token, falling back to the auth cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(cookies.AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetOperatorFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(OperatorContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

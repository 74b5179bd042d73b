package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/database"
)

type staticProbe bool

func (p staticProbe) Loaded() bool { return bool(p) }

func TestHealthHandler(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "health.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	tests := []struct {
		name     string
		handler  *HealthHandler
		database string
		loaded   bool
	}{
		{"everything disabled", NewHealthHandler(nil, nil, nil), "disabled", false},
		{"database and host", NewHealthHandler(db, nil, staticProbe(true)), "connected", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Database != tt.database || resp.Cache != "disabled" || resp.HostLoaded != tt.loaded {
				t.Errorf("unexpected health: %+v", resp)
			}
		})
	}
}

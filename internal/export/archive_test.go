package export

import (
	"context"
	"path/filepath"
	"testing"

	"system-exporter/internal/shared/config"
	"system-exporter/internal/shared/database"
	apperrors "system-exporter/internal/shared/errors"
)

func TestArchiveStore(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "archive.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	store := newTestStore(t)
	archive := NewArchive(db, discardLogger())

	snap := newTestBuilder().Build(systemRoot("Eissentam"))
	saved, err := store.Save(snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	entry, err := archive.Store(ctx, snap, saved)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := archive.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SystemName == nil || *got.SystemName != "Eissentam" || got.Seed == nil || got.Seed.String() != "12345" {
		t.Errorf("unexpected identity: %+v", got)
	}
	if got.FileName != saved.Name || string(got.Payload) != string(saved.Payload) || got.PlanetCount != 1 {
		t.Errorf("unexpected archive row: %+v", got)
	}

	planets, err := archive.GetPlanetsBySnapshotID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("planets: %v", err)
	}
	if len(planets) != 1 || planets[0].Name == nil || *planets[0].Name != "Eissentam Prime" {
		t.Errorf("unexpected planets: %+v", planets)
	}

	if count, err := archive.Count(ctx); err != nil || count != 1 {
		t.Errorf("expected 1 archived snapshot, got %d (%v)", count, err)
	}

	_, err = archive.GetPlanetsBySnapshotID(ctx, "missing")
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("expected not found for unknown snapshot, got %v", err)
	}
}

package export

import (
	"context"
	"fmt"
	"log/slog"

	"system-exporter/internal/planet"
	"system-exporter/internal/shared/database"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/system"
)

// Archive stores exported snapshots and their planet summaries in the database.
type Archive struct {
	db      *database.DB
	systems *system.Repository
	planets *planet.Repository
	logger  *slog.Logger
}

func NewArchive(db *database.DB, logger *slog.Logger) *Archive {
	logger.Debug("Initializing snapshot archive")

	return &Archive{
		db:      db,
		systems: system.NewRepository(db, logger),
		planets: planet.NewRepository(db, logger),
		logger:  logger.With("component", "snapshot_archive"),
	}
}

// Store inserts the snapshot row and its planets in one transaction.
func (a *Archive) Store(ctx context.Context, snap *snapshot.SystemSnapshot, saved *SavedFile) (*system.ArchiveEntry, error) {
	logger := a.logger.With("operation", "store", "file_name", saved.Name)

	entry := &system.ArchiveEntry{
		SystemName:  snap.Header.Name,
		Seed:        snap.Header.Seed,
		PlanetCount: snap.PlanetCount(),
		Version:     snap.Version,
		FileName:    saved.Name,
		Payload:     saved.Payload,
		CapturedAt:  snap.Timestamp,
	}

	tx, err := a.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := a.systems.CreateSnapshot(ctx, entry, tx); err != nil {
		return nil, err
	}

	if err := a.planets.CreatePlanetsBatch(ctx, entry.ID, snap.Planets, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit snapshot archive", "error", err)
		return nil, fmt.Errorf("failed to commit snapshot archive: %w", err)
	}

	logger.Info("Snapshot archived", "snapshot_id", entry.ID, "planets", entry.PlanetCount)
	return entry, nil
}

func (a *Archive) List(ctx context.Context, limit int) ([]system.ArchiveEntry, error) {
	return a.systems.ListSnapshots(ctx, limit)
}

func (a *Archive) Get(ctx context.Context, id string) (*system.ArchiveEntry, error) {
	return a.systems.GetSnapshot(ctx, id)
}

// GetPlanetsBySnapshotID returns the planets of an archived snapshot, or a
// not found error when the snapshot does not exist.
func (a *Archive) GetPlanetsBySnapshotID(ctx context.Context, id string) ([]planet.Summary, error) {
	if _, err := a.systems.GetSnapshot(ctx, id); err != nil {
		return nil, err
	}
	return a.planets.GetPlanetsBySnapshotID(ctx, id)
}

func (a *Archive) Count(ctx context.Context) (int, error) {
	return a.systems.CountSnapshots(ctx)
}

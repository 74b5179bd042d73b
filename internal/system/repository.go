package system

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"system-exporter/internal/normalize"
	"system-exporter/internal/shared/database"
	apperrors "system-exporter/internal/shared/errors"

	"github.com/google/uuid"
)

var snapshotColumns = []string{
	"id", "system_name", "seed", "planet_count", "version", "file_name", "payload", "captured_at",
}

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing snapshot repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateSnapshot stores one archive row. A missing ID or capture time is filled in.
func (r *Repository) CreateSnapshot(ctx context.Context, entry *ArchiveEntry, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CapturedAt.IsZero() {
		entry.CapturedAt = time.Now().UTC()
	}

	logger := r.logger.With(
		"component", "snapshot_repository",
		"operation", "create_snapshot",
		"snapshot_id", entry.ID,
		"file_name", entry.FileName,
	)
	logger.Debug("Creating snapshot")

	query, args, err := r.db.Builder().
		Insert("snapshots").
		Columns(snapshotColumns...).
		Values(entry.ID, entry.SystemName, seedBits(entry.Seed), entry.PlanetCount, entry.Version, entry.FileName, string(entry.Payload), entry.CapturedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build snapshot insert: %w", err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		logger.Error("Failed to create snapshot", "error", err)
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	logger.Debug("Snapshot created successfully")
	return nil
}

// ListSnapshots returns archive rows newest first, without payloads.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]ArchiveEntry, error) {
	logger := r.logger.With("component", "snapshot_repository", "operation", "list_snapshots", "limit", limit)
	logger.Debug("Listing snapshots")

	builder := r.db.Builder().
		Select("id", "system_name", "seed", "planet_count", "version", "file_name", "captured_at").
		From("snapshots").
		OrderBy("captured_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query snapshots", "error", err)
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var entries []ArchiveEntry
	for rows.Next() {
		var entry ArchiveEntry
		var name sql.NullString
		var seed sql.NullInt64
		err := rows.Scan(
			&entry.ID,
			&name,
			&seed,
			&entry.PlanetCount,
			&entry.Version,
			&entry.FileName,
			&entry.CapturedAt,
		)
		if err != nil {
			logger.Error("Failed to scan snapshot row", "error", err)
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		entry.SystemName, entry.Seed = nullableName(name), nullableSeed(seed)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	logger.Debug("Snapshots retrieved", "count", len(entries))
	return entries, nil
}

// GetSnapshot returns one archive row including its payload.
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*ArchiveEntry, error) {
	logger := r.logger.With("component", "snapshot_repository", "operation", "get_snapshot", "snapshot_id", id)

	query, args, err := r.db.Builder().
		Select(snapshotColumns...).
		From("snapshots").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	var entry ArchiveEntry
	var name sql.NullString
	var seed sql.NullInt64
	var payload []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&name,
		&seed,
		&entry.PlanetCount,
		&entry.Version,
		&entry.FileName,
		&payload,
		&entry.CapturedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("snapshot %s not found", id)
	}
	if err != nil {
		logger.Error("Failed to get snapshot", "error", err)
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	entry.SystemName, entry.Seed = nullableName(name), nullableSeed(seed)
	entry.Payload = payload
	return &entry, nil
}

// CountSnapshots returns the number of archived snapshots.
func (r *Repository) CountSnapshots(ctx context.Context) (int, error) {
	query, args, err := r.db.Builder().Select("COUNT(1)").From("snapshots").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

func nullableName(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// Seeds are stored as their 64-bit pattern; archived header seeds are never
// negative, so negative columns hold seeds above math.MaxInt64.
func seedBits(seed *normalize.SeedID) *int64 {
	if seed == nil {
		return nil
	}
	bits := seed.Bits()
	return &bits
}

func nullableSeed(v sql.NullInt64) *normalize.SeedID {
	if !v.Valid {
		return nil
	}
	seed := normalize.SeedFromBits(v.Int64)
	return &seed
}

package planet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"system-exporter/internal/normalize"
	"system-exporter/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

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

// CreatePlanetsBatch archives the accepted planets of one snapshot in a single statement.
func (r *Repository) CreatePlanetsBatch(ctx context.Context, snapshotID string, planets []Record, tx *database.Tx) error {
	if len(planets) == 0 {
		return nil
	}

	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "create_planets_batch",
		"snapshot_id", snapshotID,
		"count", len(planets),
	)
	logger.Debug("Creating planets in batch")

	insert := r.db.Builder().
		Insert("snapshot_planets").
		Columns("snapshot_id", "planet_index", "name", "biome", "common_substance", "x", "y", "z")

	for _, p := range planets {
		s := p.Summarize(snapshotID)
		var x, y, z *float64
		if s.Position != nil {
			x, y, z = &s.Position.X, &s.Position.Y, &s.Position.Z
		}
		insert = insert.Values(s.SnapshotID, s.Index, s.Name, s.Biome, s.CommonSubstance, x, y, z)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build planet insert: %w", err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		logger.Error("Failed to batch create planets", "error", err)
		return fmt.Errorf("failed to batch create planets: %w", err)
	}

	logger.Info("Planets batch created successfully")
	return nil
}

// GetPlanetsBySnapshotID returns the archived planets of one snapshot in index order.
func (r *Repository) GetPlanetsBySnapshotID(ctx context.Context, snapshotID string) ([]Summary, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planets_by_snapshot", "snapshot_id", snapshotID)
	logger.Debug("Getting planets by snapshot ID")

	query, args, err := r.db.Builder().
		Select("snapshot_id", "planet_index", "name", "biome", "common_substance", "x", "y", "z").
		From("snapshot_planets").
		Where("snapshot_id = ?", snapshotID).
		OrderBy("planet_index").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build planet query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Summary
	for rows.Next() {
		var p Summary
		var name, biome, substance sql.NullString
		var x, y, z sql.NullFloat64
		err := rows.Scan(&p.SnapshotID, &p.Index, &name, &biome, &substance, &x, &y, &z)
		if err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		p.Name = nullString(name)
		p.Biome = nullString(biome)
		p.CommonSubstance = nullString(substance)
		if x.Valid && y.Valid && z.Valid {
			p.Position = &normalize.Vec3{X: x.Float64, Y: y.Float64, Z: z.Float64}
		}
		planets = append(planets, p)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// Package snapshot assembles the system header and accepted planets of one
// observation into a SystemSnapshot.
package snapshot

import (
	"fmt"
	"log/slog"
	"time"

	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/planet"
	"system-exporter/internal/system"
)

type Builder struct {
	ctx     *extract.Context
	scorer  *planet.Scorer
	planets *planet.Extractor
	logger  *slog.Logger
	now     func() time.Time
}

func NewBuilder(ctx *extract.Context, scorer *planet.Scorer) *Builder {
	ctx.Logger.Debug("Initializing snapshot builder")

	return &Builder{
		ctx:     ctx,
		scorer:  scorer,
		planets: planet.NewExtractor(ctx),
		logger:  ctx.Logger.With("component", "snapshot_builder"),
		now:     time.Now,
	}
}

// WithClock replaces the timestamp source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build produces a snapshot from handle. It never fails: a nil handle yields
// the no-data marker and a fault mid-pass is reported in the header error.
func (b *Builder) Build(handle host.Record) (snap *SystemSnapshot) {
	snap = &SystemSnapshot{
		Timestamp: b.now().UTC(),
		Version:   Version,
		Planets:   []planet.Record{},
	}

	if handle == nil {
		snap.Header.Error = system.NoDataMarker
		return snap
	}

	logger := b.logger.With("operation", "build")

	defer func() {
		if r := recover(); r != nil {
			fault := fmt.Sprint(r)
			addError(snap, fault)
			logger.Error("Snapshot build faulted", "error", fault, "planets", len(snap.Planets))
		}
	}()

	header, err := system.ExtractHeader(b.ctx, handle)
	snap.Header = header
	if err != nil {
		addError(snap, err.Error())
		logger.Error("Failed to extract system header", "error", err)
	}

	if err := b.collectPlanets(handle, snap); err != nil {
		addError(snap, err.Error())
		logger.Error("Failed to read planet slots", "error", err)
	}

	count := len(snap.Planets)
	snap.Header.PlanetCount = &count

	logger.Debug("Snapshot built", "system", snap.Header.DisplayName(), "planets", count)
	return snap
}

// addError appends msg to the header error without losing earlier failures.
func addError(snap *SystemSnapshot, msg string) {
	if snap.Header.Error == "" {
		snap.Header.Error = msg
		return
	}
	snap.Header.Error += "; " + msg
}

// collectPlanets scores every slot in order and extracts the accepted ones.
// Rejected slots do not consume an index.
func (b *Builder) collectPlanets(handle host.Record, snap *SystemSnapshot) error {
	raw, err := handle.Field(FieldPlanets)
	if err != nil {
		if host.IsMissing(err) {
			return nil
		}
		return fmt.Errorf("failed to read planet slots: %w", err)
	}

	slots, ok := raw.Items()
	if !ok {
		return fmt.Errorf("planet slots have unexpected kind %s", raw.Kind())
	}

	for i, item := range slots {
		slot, ok := item.RecordValue()
		if !ok || slot == nil {
			continue
		}
		if score := b.scorer.Score(slot); score < b.scorer.Rules().MinScore {
			b.logger.Debug("Planet slot rejected", "slot", i, "score", score)
			continue
		}
		snap.Planets = append(snap.Planets, b.planets.Extract(slot, len(snap.Planets)))
	}
	return nil
}

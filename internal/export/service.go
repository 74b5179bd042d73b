// Package export turns observed host structures into persisted snapshots and
// serves the trigger commands.
package export

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"system-exporter/internal/host"
	"system-exporter/internal/shared/config"
	apperrors "system-exporter/internal/shared/errors"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/system"
)

// StreamSnapshot is the message type published after every export.
const StreamSnapshot = "snapshot"

type SnapshotBuilder interface {
	Build(handle host.Record) *snapshot.SystemSnapshot
}

type Archiver interface {
	Store(ctx context.Context, snap *snapshot.SystemSnapshot, saved *SavedFile) (*system.ArchiveEntry, error)
	Count(ctx context.Context) (int, error)
}

type Cache interface {
	StoreLatest(ctx context.Context, payload []byte, ttl time.Duration) error
	LoadLatest(ctx context.Context) ([]byte, error)
}

type Publisher interface {
	Publish(kind string, data any)
	Subscribers() int
}

// Options carries the optional sinks. Nil members are skipped.
type Options struct {
	Archive   Archiver
	Cache     Cache
	CacheTTL  time.Duration
	Publisher Publisher
}

// Result describes one successful export.
type Result struct {
	File        string `json:"file"`
	System      string `json:"system,omitempty"`
	Planets     int    `json:"planets"`
	SnapshotID  string `json:"snapshot_id,omitempty"`
	HeaderError string `json:"header_error,omitempty"`
	Total       int    `json:"total_exports"`
}

type ConsolidateResult struct {
	Path    string `json:"path"`
	Systems int    `json:"systems"`
}

// Service implements host.Listener and the four trigger commands. Every
// operation runs under one lock, so builds never overlap.
type Service struct {
	mu      sync.Mutex
	state   *State
	builder SnapshotBuilder
	store   *FileStore
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(builder SnapshotBuilder, store *FileStore, state *State, opts Options, logger *slog.Logger) *Service {
	logger.Debug("Initializing export service",
		"auto_export", state.autoExport,
		"archive", opts.Archive != nil,
		"cache", opts.Cache != nil,
		"stream", opts.Publisher != nil,
	)

	return &Service{
		state:   state,
		builder: builder,
		store:   store,
		opts:    opts,
		logger:  logger.With("component", "export_service"),
		now:     time.Now,
	}
}

// NewStateFromConfig seeds the state from the exporter configuration.
func NewStateFromConfig(cfg config.ExporterConfig) *State {
	return NewState(cfg.AutoExport, cfg.DebugMode)
}

// OnTick captures the current handle. A nil handle keeps the previous one.
func (s *Service) OnTick(handle host.Record) {
	if handle == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.handle == nil {
		s.logger.Info("System captured")
	}
	s.state.handle = handle
}

// OnSystemConstructed captures the new handle and exports it when auto-export is on.
func (s *Service) OnSystemConstructed(handle host.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger.With("operation", "system_constructed")

	if handle != nil {
		s.state.handle = handle
	}
	logger.Info("New system loaded", "auto_export", s.state.autoExport)

	if !s.state.autoExport {
		return
	}

	if _, err := s.export(context.Background(), s.state.handle); err != nil {
		logger.Error("Auto-export failed", "error", err)
	}
}

// ExportNow builds and persists the current handle.
func (s *Service) ExportNow(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.handle == nil {
		s.logger.Warn("Export requested without a loaded system")
		return nil, apperrors.Unavailable("no system loaded")
	}

	return s.export(ctx, s.state.handle)
}

func (s *Service) export(ctx context.Context, handle host.Record) (*Result, error) {
	logger := s.logger.With("operation", "export")

	snap := s.builder.Build(handle)

	if s.state.debug {
		s.dump(handle)
	}

	saved, err := s.store.Save(snap)
	if err != nil {
		logger.Error("Failed to persist snapshot", "error", err)
		return nil, apperrors.WrapExternal("failed to persist snapshot", err)
	}

	s.state.recordExport(saved.Name, s.now())

	result := &Result{
		File:        saved.Name,
		System:      snap.Header.DisplayName(),
		Planets:     snap.PlanetCount(),
		HeaderError: snap.Header.Error,
		Total:       s.state.totalExports,
	}

	if s.opts.Archive != nil {
		entry, err := s.opts.Archive.Store(ctx, snap, saved)
		if err != nil {
			logger.Error("Failed to archive snapshot", "file", saved.Name, "error", err)
		} else {
			result.SnapshotID = entry.ID
		}
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.StoreLatest(ctx, saved.Payload, s.opts.CacheTTL); err != nil {
			logger.Error("Failed to cache snapshot", "file", saved.Name, "error", err)
		}
	}

	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(StreamSnapshot, snap)
	}

	logger.Info("Snapshot exported",
		"file", saved.Name,
		"system", result.System,
		"planets", result.Planets,
		"total_exports", result.Total,
	)
	return result, nil
}

// Consolidate writes all_systems.json from every exported file.
func (s *Service) Consolidate(ctx context.Context) (*ConsolidateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, count, err := s.store.Consolidate()
	if err != nil {
		if errors.Is(err, ErrNothingToConsolidate) {
			s.logger.Info("Nothing to consolidate")
			return nil, apperrors.NotFoundf("no snapshot files to consolidate")
		}
		s.logger.Error("Failed to consolidate snapshots", "error", err)
		return nil, apperrors.WrapExternal("failed to consolidate snapshots", err)
	}

	return &ConsolidateResult{Path: path, Systems: count}, nil
}

// ToggleAutoExport flips the auto-export flag and returns the new value.
func (s *Service) ToggleAutoExport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.autoExport = !s.state.autoExport
	s.logger.Info("Auto-export toggled", "enabled", s.state.autoExport)
	return s.state.autoExport
}

func (s *Service) SetAutoExport(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.autoExport = enabled
	s.logger.Info("Auto-export set", "enabled", enabled)
}

// DumpStructure logs and returns a field dump of the raw header records.
func (s *Service) DumpStructure() (*snapshot.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.handle == nil {
		s.logger.Warn("Structure dump requested without a loaded system")
		return nil, apperrors.Unavailable("no system loaded")
	}

	report, err := s.dump(s.state.handle)
	if err != nil {
		return nil, apperrors.WrapExternal("failed to read host structure", err)
	}
	return report, nil
}

func (s *Service) dump(handle host.Record) (*snapshot.Report, error) {
	logger := s.logger.With("operation", "dump_structure")

	report, err := snapshot.DumpStructure(handle)
	if err != nil {
		logger.Warn("Failed to dump host structure", "error", err)
		return nil, err
	}
	report.Log(logger)
	return report, nil
}

// Latest returns the encoded latest snapshot from the cache or the file store.
func (s *Service) Latest(ctx context.Context) ([]byte, error) {
	if s.opts.Cache != nil {
		payload, err := s.opts.Cache.LoadLatest(ctx)
		if err != nil {
			s.logger.Warn("Failed to read cached snapshot", "error", err)
		} else if payload != nil {
			return payload, nil
		}
	}

	return s.store.ReadLatest()
}

// Stats returns the export counters and sink status.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	stats := s.state.stats()
	s.mu.Unlock()

	if s.opts.Publisher != nil {
		stats.Subscribers = s.opts.Publisher.Subscribers()
	}

	if s.opts.Archive != nil {
		count, err := s.opts.Archive.Count(ctx)
		if err != nil {
			s.logger.Warn("Failed to count archived snapshots", "error", err)
		}
		stats.Archived = count
	}

	return stats
}

// Loaded reports whether a host structure has been captured.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.handle != nil
}

package host

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Source yields the current root handle of the live structure.
type Source interface {
	// Load returns the root record. ErrNoHandle means nothing is loaded yet.
	Load() (Record, Revision, error)
}

// Revision identifies one constructed instance of the structure. The mirror
// is rewritten on every host tick, so the revision comes from the content:
// the construct counter the host writes under "$construct", else the
// configured identity fields, else a digest of the whole document.
type Revision struct {
	key string
}

func (r Revision) Equal(other Revision) bool { return r.key == other.key }

func (r Revision) String() string { return r.key }

type FileSource struct {
	path           string
	identityRecord string
	identityFields []string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// WithIdentity names the record and fields that identify a constructed
// instance when the mirror carries no construct counter.
func (s *FileSource) WithIdentity(record string, fields ...string) *FileSource {
	s.identityRecord = record
	s.identityFields = fields
	return s
}

func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Load() (Record, Revision, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Revision{}, ErrNoHandle
		}
		return nil, Revision{}, fmt.Errorf("failed to read host dump: %w", err)
	}

	record, err := ParseDump(data)
	if err != nil {
		return nil, Revision{}, err
	}

	return record, s.revision(record, data), nil
}

func (s *FileSource) revision(record *DumpRecord, data []byte) Revision {
	if n, ok := record.fields[markerConstruct].(json.Number); ok {
		return Revision{key: "construct:" + n.String()}
	}

	if s.identityRecord != "" {
		if identity, ok := record.fields[s.identityRecord].(map[string]any); ok {
			parts := make([]any, len(s.identityFields))
			for i, field := range s.identityFields {
				parts[i] = identity[field]
			}
			if encoded, err := json.Marshal(parts); err == nil {
				return Revision{key: "identity:" + string(encoded)}
			}
		}
	}

	sum := sha256.Sum256(data)
	return Revision{key: "digest:" + hex.EncodeToString(sum[:])}
}

// Listener receives the two host events.
type Listener interface {
	// OnTick fires every poll with the current handle, nil when unavailable.
	OnTick(handle Record)
	// OnSystemConstructed fires once per new revision of the structure.
	OnSystemConstructed(handle Record)
}

// Watcher polls a Source and turns it into tick and construct events.
type Watcher struct {
	source   Source
	listener Listener
	interval time.Duration
	logger   *slog.Logger

	last Revision
	seen bool
}

func NewWatcher(source Source, listener Listener, interval time.Duration, logger *slog.Logger) *Watcher {
	logger.Debug("Initializing host watcher", "interval", interval)

	return &Watcher{
		source:   source,
		listener: listener,
		interval: interval,
		logger:   logger.With("component", "host_watcher"),
	}
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Host watcher started", "interval", w.interval)
	w.Poll()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Host watcher stopped")
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll performs one observation and dispatches events.
func (w *Watcher) Poll() {
	record, rev, err := w.source.Load()
	if err != nil {
		if !errors.Is(err, ErrNoHandle) {
			w.logger.Debug("Host structure unavailable", "error", err)
		}
		w.listener.OnTick(nil)
		return
	}

	if !w.seen || !rev.Equal(w.last) {
		w.seen = true
		w.last = rev
		w.logger.Info("New system loaded", "revision", rev.String())
		w.listener.OnSystemConstructed(record)
	}

	w.listener.OnTick(record)
}

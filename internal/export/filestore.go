package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"system-exporter/internal/snapshot"
	apperrors "system-exporter/internal/shared/errors"

	"github.com/dustin/go-humanize"
)

const (
	LatestFileName       = "latest_system.json"
	ConsolidatedFileName = "all_systems.json"

	filePrefix      = "system_"
	fileTimeLayout  = "20060102_150405"
	maxSafeNameRune = 20
)

// ErrNothingToConsolidate is returned when no snapshot file could be read.
var ErrNothingToConsolidate = errors.New("no snapshot files to consolidate")

// SavedFile describes one written snapshot file.
type SavedFile struct {
	Name    string
	Path    string
	Payload []byte
}

// Consolidated is the document written to all_systems.json.
type Consolidated struct {
	Date    string            `json:"fecha"`
	Total   int               `json:"total"`
	Systems []json.RawMessage `json:"sistemas"`
}

// FileStore writes snapshots as pretty-printed JSON files into one directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &FileStore{
		dir:    dir,
		logger: logger.With("component", "file_store", "dir", dir),
		now:    time.Now,
	}, nil
}

func (s *FileStore) Dir() string { return s.dir }

// SafeName keeps letters, digits, space, '-' and '_' and truncates to 20 runes.
func SafeName(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == maxSafeNameRune {
			break
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// FileName returns the timestamped file name for a system name.
func FileName(systemName string, at time.Time) string {
	ts := at.Format(fileTimeLayout)
	if safe := SafeName(systemName); safe != "" {
		return fmt.Sprintf("%s%s_%s.json", filePrefix, safe, ts)
	}
	return fmt.Sprintf("%s%s.json", filePrefix, ts)
}

// Save writes the snapshot to its timestamped file and overwrites the latest
// file. The snapshot itself is never modified.
func (s *FileStore) Save(snap *snapshot.SystemSnapshot) (*SavedFile, error) {
	logger := s.logger.With("operation", "save")

	payload, err := encode(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := FileName(snap.Header.DisplayName(), s.now())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		logger.Error("Failed to write snapshot file", "file", name, "error", err)
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, LatestFileName), payload, 0o644); err != nil {
		logger.Error("Failed to write latest file", "error", err)
		return nil, fmt.Errorf("failed to write %s: %w", LatestFileName, err)
	}

	logger.Info("Snapshot saved", "file", name, "size", humanize.Bytes(uint64(len(payload))))

	return &SavedFile{Name: name, Path: path, Payload: payload}, nil
}

// List returns the timestamped snapshot files in sorted order.
func (s *FileStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Consolidate gathers every readable snapshot file into all_systems.json and
// returns its path and the number of systems included. Unparsable files are
// skipped.
func (s *FileStore) Consolidate() (string, int, error) {
	logger := s.logger.With("operation", "consolidate")

	names, err := s.List()
	if err != nil {
		return "", 0, err
	}

	systems := make([]json.RawMessage, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			logger.Warn("Skipping unreadable snapshot file", "file", name, "error", err)
			continue
		}
		if !json.Valid(data) {
			logger.Warn("Skipping malformed snapshot file", "file", name)
			continue
		}
		systems = append(systems, json.RawMessage(bytes.TrimSpace(data)))
	}

	if len(systems) == 0 {
		return "", 0, ErrNothingToConsolidate
	}

	payload, err := encode(Consolidated{
		Date:    s.now().Format("2006-01-02T15:04:05.000000"),
		Total:   len(systems),
		Systems: systems,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode consolidated file: %w", err)
	}

	path := filepath.Join(s.dir, ConsolidatedFileName)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		logger.Error("Failed to write consolidated file", "error", err)
		return "", 0, fmt.Errorf("failed to write %s: %w", ConsolidatedFileName, err)
	}

	logger.Info("Snapshots consolidated", "systems", len(systems), "size", humanize.Bytes(uint64(len(payload))))
	return path, len(systems), nil
}

// ReadLatest returns the contents of latest_system.json.
func (s *FileStore) ReadLatest() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, LatestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundf("no snapshot has been exported yet")
		}
		return nil, fmt.Errorf("failed to read %s: %w", LatestFileName, err)
	}
	return data, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

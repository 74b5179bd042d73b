package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"system-exporter/internal/host"
	apperrors "system-exporter/internal/shared/errors"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/system"
)

type fakeArchive struct {
	stored []string
	err    error
}

func (f *fakeArchive) Store(ctx context.Context, snap *snapshot.SystemSnapshot, saved *SavedFile) (*system.ArchiveEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.stored = append(f.stored, saved.Name)
	return &system.ArchiveEntry{ID: "snap-1", FileName: saved.Name}, nil
}

func (f *fakeArchive) Count(ctx context.Context) (int, error) {
	return len(f.stored), f.err
}

type fakeCache struct {
	payload []byte
	ttl     time.Duration
	err     error
}

func (f *fakeCache) StoreLatest(ctx context.Context, payload []byte, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.payload, f.ttl = payload, ttl
	return nil
}

func (f *fakeCache) LoadLatest(ctx context.Context) ([]byte, error) {
	return f.payload, f.err
}

type fakePublisher struct {
	mu    sync.Mutex
	kinds []string
}

func (f *fakePublisher) Publish(kind string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
}

func (f *fakePublisher) Subscribers() int { return 3 }

func newTestService(t *testing.T, autoExport bool, opts Options) (*Service, *FileStore) {
	t.Helper()
	store := newTestStore(t)
	return NewService(newTestBuilder(), store, NewState(autoExport, false), opts, discardLogger()), store
}

func countFiles(t *testing.T, store *FileStore) int {
	t.Helper()
	names, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(names)
}

func TestExportNowWithoutSystem(t *testing.T) {
	svc, store := newTestService(t, false, Options{})

	_, err := svc.ExportNow(context.Background())
	if apperrors.GetType(err) != apperrors.ErrorTypeUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
	if countFiles(t, store) != 0 {
		t.Error("nothing must be written without a system")
	}
}

func TestExportNow(t *testing.T) {
	archive := &fakeArchive{}
	cache := &fakeCache{}
	publisher := &fakePublisher{}
	svc, store := newTestService(t, false, Options{
		Archive:   archive,
		Cache:     cache,
		CacheTTL:  time.Hour,
		Publisher: publisher,
	})

	svc.OnTick(systemRoot("Eissentam"))

	result, err := svc.ExportNow(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if result.File != "system_Eissentam_20261017_210405.json" || result.System != "Eissentam" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Planets != 1 || result.Total != 1 || result.SnapshotID != "snap-1" {
		t.Errorf("unexpected counters: %+v", result)
	}

	if len(archive.stored) != 1 || cache.ttl != time.Hour || len(cache.payload) == 0 {
		t.Errorf("sinks not fed: archive=%v ttl=%v", archive.stored, cache.ttl)
	}
	if len(publisher.kinds) != 1 || publisher.kinds[0] != StreamSnapshot {
		t.Errorf("unexpected published messages: %v", publisher.kinds)
	}
	if countFiles(t, store) != 1 {
		t.Error("expected one snapshot file")
	}

	stats := svc.Stats(context.Background())
	if !stats.SystemLoaded || stats.TotalExports != 1 || stats.LastFile != result.File {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Subscribers != 3 || stats.Archived != 1 {
		t.Errorf("unexpected sink stats: %+v", stats)
	}
}

func TestSinkFailuresDoNotFailExport(t *testing.T) {
	sinkErr := errors.New("connection refused")
	svc, _ := newTestService(t, false, Options{
		Archive: &fakeArchive{err: sinkErr},
		Cache:   &fakeCache{err: sinkErr},
	})
	svc.OnTick(systemRoot("Eissentam"))

	result, err := svc.ExportNow(context.Background())
	if err != nil {
		t.Fatalf("sink failures must not fail the export: %v", err)
	}
	if result.SnapshotID != "" {
		t.Errorf("expected no snapshot id, got %q", result.SnapshotID)
	}
}

func TestExportPersistFailure(t *testing.T) {
	svc, store := newTestService(t, false, Options{})
	store.dir = filepath.Join(store.Dir(), "missing", "dir")
	svc.OnTick(systemRoot("Eissentam"))

	_, err := svc.ExportNow(context.Background())
	if apperrors.GetType(err) != apperrors.ErrorTypeExternal {
		t.Errorf("expected external error, got %v", err)
	}
	if stats := svc.Stats(context.Background()); stats.TotalExports != 0 {
		t.Errorf("failed export must not be counted, got %d", stats.TotalExports)
	}
}

func TestOnTickNilKeepsHandle(t *testing.T) {
	svc, _ := newTestService(t, false, Options{})

	svc.OnTick(nil)
	if svc.Loaded() {
		t.Fatal("nil tick must not capture a system")
	}

	svc.OnTick(systemRoot("Eissentam"))
	svc.OnTick(nil)
	if !svc.Loaded() {
		t.Error("nil tick must keep the captured system")
	}
}

func TestOnSystemConstructedAutoExport(t *testing.T) {
	svc, store := newTestService(t, false, Options{})

	svc.OnSystemConstructed(systemRoot("Yamur"))
	if countFiles(t, store) != 0 {
		t.Fatal("auto-export is off, nothing must be written")
	}
	if !svc.Loaded() {
		t.Error("constructed system must be captured")
	}

	if !svc.ToggleAutoExport() {
		t.Fatal("toggle must enable auto-export")
	}
	svc.OnSystemConstructed(systemRoot("Eissentam"))
	if countFiles(t, store) != 1 {
		t.Errorf("expected one auto-exported file, got %d", countFiles(t, store))
	}

	if svc.ToggleAutoExport() {
		t.Error("second toggle must disable auto-export")
	}
	svc.SetAutoExport(true)
	if !svc.Stats(context.Background()).AutoExport {
		t.Error("SetAutoExport must enable auto-export")
	}
}

func TestServiceConsolidate(t *testing.T) {
	svc, _ := newTestService(t, false, Options{})

	_, err := svc.Consolidate(context.Background())
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("expected not found without files, got %v", err)
	}

	svc.OnTick(systemRoot("Eissentam"))
	if _, err := svc.ExportNow(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	result, err := svc.Consolidate(context.Background())
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}
	if result.Systems != 1 {
		t.Errorf("expected 1 system, got %d", result.Systems)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("consolidated file missing: %v", err)
	}
}

func TestServiceDumpStructure(t *testing.T) {
	svc, _ := newTestService(t, false, Options{})

	if _, err := svc.DumpStructure(); apperrors.GetType(err) != apperrors.ErrorTypeUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}

	svc.OnTick(systemRoot("Eissentam"))
	report, err := svc.DumpStructure()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(report.Sections) != 2 {
		t.Fatalf("expected system and trading sections, got %d", len(report.Sections))
	}
	if report.Sections[0].Name != system.FieldSystemData || report.Sections[1].Name != system.FieldTradingData {
		t.Errorf("unexpected sections: %s, %s", report.Sections[0].Name, report.Sections[1].Name)
	}

	svc.OnTick(host.MapRecord{})
	if _, err := svc.DumpStructure(); apperrors.GetType(err) != apperrors.ErrorTypeExternal {
		t.Errorf("expected external error for a root without system data, got %v", err)
	}
}

func TestServiceLatest(t *testing.T) {
	cache := &fakeCache{}
	svc, _ := newTestService(t, false, Options{Cache: cache})

	if _, err := svc.Latest(context.Background()); apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("expected not found before any export, got %v", err)
	}

	svc.OnTick(systemRoot("Eissentam"))
	if _, err := svc.ExportNow(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	cache.payload = []byte(`{"cached":true}`)
	got, err := svc.Latest(context.Background())
	if err != nil || string(got) != `{"cached":true}` {
		t.Errorf("expected cached payload, got %s (%v)", got, err)
	}

	cache.payload, cache.err = nil, errors.New("timeout")
	got, err = svc.Latest(context.Background())
	if err != nil || len(got) == 0 || got[0] != '{' {
		t.Errorf("expected file fallback, got %s (%v)", got, err)
	}
}

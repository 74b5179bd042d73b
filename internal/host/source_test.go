package host

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type recordingListener struct {
	ticks       []Record
	constructed []Record
}

func (l *recordingListener) OnTick(handle Record) { l.ticks = append(l.ticks, handle) }

func (l *recordingListener) OnSystemConstructed(handle Record) {
	l.constructed = append(l.constructed, handle)
}

func newTestWatcher(path string, l Listener) *Watcher {
	source := NewFileSource(path).WithIdentity("mSolarSystemData", "Name", "Seed")
	return NewWatcher(source, l, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeDump(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, _, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")).Load()
	if err != ErrNoHandle {
		t.Errorf("expected ErrNoHandle, got %v", err)
	}
}

func TestWatcherEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_system.json")
	l := &recordingListener{}
	w := newTestWatcher(path, l)

	// Nothing mirrored yet: tick with a nil handle, no construct event.
	w.Poll()
	if len(l.ticks) != 1 || l.ticks[0] != nil || len(l.constructed) != 0 {
		t.Fatalf("unexpected events before the dump exists: %d ticks, %d constructed", len(l.ticks), len(l.constructed))
	}

	first := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	writeDump(t, path, `{"mSolarSystemData": {"Name": "Eissentam"}}`, first)

	w.Poll()
	w.Poll()
	if len(l.constructed) != 1 {
		t.Fatalf("expected one construct event for an unchanged dump, got %d", len(l.constructed))
	}
	if len(l.ticks) != 3 || l.ticks[2] == nil {
		t.Fatalf("expected a live handle on every tick")
	}

	writeDump(t, path, `{"mSolarSystemData": {"Name": "Yamur"}}`, first.Add(time.Minute))
	w.Poll()
	if len(l.constructed) != 2 {
		t.Fatalf("expected a construct event for the new system, got %d", len(l.constructed))
	}

	data, err := Child(l.constructed[1], "mSolarSystemData")
	if err != nil {
		t.Fatalf("system data: %v", err)
	}
	name, _ := data.Field("Name")
	if s, _ := name.TextValue(); s != "Yamur" {
		t.Errorf("expected the new system, got %q", s)
	}
}

func TestWatcherMalformedDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_system.json")
	writeDump(t, path, `{"half":`, time.Now())

	l := &recordingListener{}
	newTestWatcher(path, l).Poll()

	if len(l.ticks) != 1 || l.ticks[0] != nil || len(l.constructed) != 0 {
		t.Errorf("a malformed dump must tick with a nil handle only")
	}
}

func TestWatcherRewriteOfSameSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_system.json")
	l := &recordingListener{}
	w := newTestWatcher(path, l)

	first := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	writeDump(t, path, `{"mSolarSystemData": {"Name": "Eissentam", "Seed": 7, "Planets": 3}}`, first)
	w.Poll()

	// The host rewrites the mirror every tick with live data that changes size.
	writeDump(t, path, `{"mSolarSystemData": {"Name": "Eissentam", "Seed": 7, "Planets": 3, "Time": 1234.5}}`, first.Add(time.Second))
	w.Poll()
	writeDump(t, path, `{"mSolarSystemData": {"Name": "Eissentam", "Seed": 7, "Planets": 3, "Time": 1240}}`, first.Add(2*time.Second))
	w.Poll()

	if len(l.ticks) != 3 {
		t.Fatalf("expected a tick per poll, got %d", len(l.ticks))
	}
	if len(l.constructed) != 1 {
		t.Errorf("expected one construct event across rewrites of the same system, got %d", len(l.constructed))
	}

	writeDump(t, path, `{"mSolarSystemData": {"Name": "Eissentam", "Seed": 8, "Planets": 3}}`, first.Add(3*time.Second))
	w.Poll()
	if len(l.constructed) != 2 {
		t.Errorf("expected a construct event for a new seed, got %d", len(l.constructed))
	}
}

func TestWatcherConstructCounter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_system.json")
	l := &recordingListener{}
	w := newTestWatcher(path, l)

	first := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	writeDump(t, path, `{"$construct": 1, "mSolarSystemData": {"Name": "Eissentam", "Seed": 7}}`, first)
	w.Poll()
	writeDump(t, path, `{"$construct": 1, "mSolarSystemData": {"Name": "Eissentam", "Seed": 7, "Time": 3}}`, first.Add(time.Second))
	w.Poll()

	// Revisiting the same system is a new construction once the counter moves.
	writeDump(t, path, `{"$construct": 2, "mSolarSystemData": {"Name": "Eissentam", "Seed": 7}}`, first.Add(2*time.Second))
	w.Poll()

	if len(l.ticks) != 3 || len(l.constructed) != 2 {
		t.Errorf("expected 3 ticks and 2 construct events, got %d and %d", len(l.ticks), len(l.constructed))
	}
}

func TestFileSourceDigestWithoutIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live_system.json")
	source := NewFileSource(path)
	now := time.Now()

	writeDump(t, path, `{"a": 1}`, now)
	_, first, err := source.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	writeDump(t, path, `{"a": 1}`, now.Add(time.Minute))
	_, same, _ := source.Load()
	writeDump(t, path, `{"a": 2}`, now.Add(2*time.Minute))
	_, changed, _ := source.Load()

	if !first.Equal(same) {
		t.Errorf("identical content must keep its revision: %s vs %s", first, same)
	}
	if first.Equal(changed) {
		t.Errorf("different content must change the revision")
	}
}

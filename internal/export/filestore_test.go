package export

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"system-exporter/internal/host"
	"system-exporter/internal/planet"
	apperrors "system-exporter/internal/shared/errors"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/system"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Eissentam", "Eissentam"},
		{"keeps space dash underscore", "Oxenf IV-b_2", "Oxenf IV-b_2"},
		{"drops punctuation", "Yamur <Alpha>!?", "Yamur Alpha"},
		{"keeps unicode letters", "Ñandú-Prime", "Ñandú-Prime"},
		{"truncates to 20 runes", "Ábcdefghijklmnopqrstuvwxyz", "Ábcdefghijklmnopqrst"},
		{"all filtered", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeName(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	if got := FileName("Eissentam", at); got != "system_Eissentam_20260314_092653.json" {
		t.Errorf("unexpected named file: %s", got)
	}
	if got := FileName("", at); got != "system_20260314_092653.json" {
		t.Errorf("unexpected nameless file: %s", got)
	}
	if got := FileName("***", at); got != "system_20260314_092653.json" {
		t.Errorf("fully filtered name must fall back to nameless form, got %s", got)
	}
}

func TestSaveWritesTimestampedAndLatest(t *testing.T) {
	store := newTestStore(t)
	snap := newTestBuilder().Build(systemRoot("Eissentam <Ω>"))

	saved, err := store.Save(snap)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.Name != "system_Eissentam Ω_20261017_210405.json" {
		t.Errorf("unexpected file name: %s", saved.Name)
	}

	data, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	latest, err := store.ReadLatest()
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if string(data) != string(latest) || string(data) != string(saved.Payload) {
		t.Error("timestamped file, latest file and payload must match")
	}

	if !strings.Contains(string(data), `"nombre": "Eissentam <Ω>"`) {
		t.Errorf("expected unescaped, indented name in document:\n%s", data)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != saved.Name {
		t.Errorf("latest file must not be listed, got %v", names)
	}
}

func TestSaveFailureLeavesSnapshotUntouched(t *testing.T) {
	store := newTestStore(t)
	blocker := filepath.Join(store.Dir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store.dir = filepath.Join(blocker, "nested")

	snap := newTestBuilder().Build(systemRoot("Eissentam"))
	before, _ := json.Marshal(snap)

	if _, err := store.Save(snap); err == nil {
		t.Fatal("expected save to fail")
	}

	after, _ := json.Marshal(snap)
	if string(before) != string(after) {
		t.Error("failed save must not modify the snapshot")
	}
}

func TestConsolidate(t *testing.T) {
	store := newTestStore(t)
	builder := newTestBuilder()

	if _, err := store.Save(builder.Build(systemRoot("Yamur"))); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.now = func() time.Time { return exportTime.Add(time.Minute) }
	if _, err := store.Save(builder.Build(systemRoot("Eissentam"))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "system_broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}

	path, count, err := store.Consolidate()
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}
	if count != 2 || filepath.Base(path) != ConsolidatedFileName {
		t.Errorf("unexpected result: %s %d", path, count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read consolidated: %v", err)
	}

	var doc struct {
		Date    string `json:"fecha"`
		Total   int    `json:"total"`
		Systems []struct {
			Header struct {
				Name string `json:"nombre"`
			} `json:"sistema"`
		} `json:"sistemas"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode consolidated: %v", err)
	}

	if doc.Total != 2 || len(doc.Systems) != 2 || doc.Date == "" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	// Files are consolidated in sorted name order.
	if doc.Systems[0].Header.Name != "Eissentam" || doc.Systems[1].Header.Name != "Yamur" {
		t.Errorf("unexpected order: %+v", doc.Systems)
	}
}

func TestConsolidateWithoutFiles(t *testing.T) {
	store := newTestStore(t)

	if _, _, err := store.Consolidate(); !errors.Is(err, ErrNothingToConsolidate) {
		t.Errorf("expected ErrNothingToConsolidate, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), ConsolidatedFileName)); !os.IsNotExist(err) {
		t.Error("no consolidated file must be written")
	}
}

func TestReadLatestMissing(t *testing.T) {
	_, err := newTestStore(t).ReadLatest()
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSaveOmitsNonFiniteFields(t *testing.T) {
	root := systemRoot("Eissentam")
	data, _ := root[system.FieldSystemData].RecordValue()
	data.(host.MapRecord)[system.FieldTradingData] = host.RecordOf(host.MapRecord{
		"BuyBaseMarkup":  host.Float(math.NaN()),
		"SellBaseMarkup": host.Float(0.5),
	})
	slots, _ := root[snapshot.FieldPlanets].Items()
	slot, _ := slots[0].RecordValue()
	slot.(host.MapRecord)[planet.FieldPosition] = host.Vector(math.NaN(), 2000, 0)

	snap := newTestBuilder().Build(root)
	if len(snap.Planets) != 1 {
		t.Fatalf("expected the planet to survive, got %d", len(snap.Planets))
	}

	saved, err := newTestStore(t).Save(snap)
	if err != nil {
		t.Fatalf("a non-finite field must not fail the save: %v", err)
	}

	doc := string(saved.Payload)
	if strings.Contains(doc, "margen_compra") || strings.Contains(doc, "posicion") {
		t.Errorf("non-finite fields must be omitted:\n%s", doc)
	}
	if !strings.Contains(doc, `"margen_venta": 0.5`) {
		t.Errorf("finite sibling must be kept:\n%s", doc)
	}
}

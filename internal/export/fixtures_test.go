package export

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"system-exporter/internal/enum"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/planet"
	"system-exporter/internal/resource"
	"system-exporter/internal/snapshot"
	"system-exporter/internal/system"
)

var exportTime = time.Date(2026, 10, 17, 21, 4, 5, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBuilder() *snapshot.Builder {
	logger := discardLogger()
	decoder := enum.NewDecoder(logger)
	ctx := extract.NewContext(decoder, resource.Default(), logger)
	scorer := planet.NewScorer(planet.DefaultRules(), decoder, logger)
	return snapshot.NewBuilder(ctx, scorer).WithClock(func() time.Time { return exportTime })
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	store.now = func() time.Time { return exportTime }
	return store
}

// systemRoot is a loaded system with one planet that scores 9.
func systemRoot(name string) host.MapRecord {
	slot := host.RecordOf(host.MapRecord{
		planet.FieldData: host.RecordOf(host.MapRecord{
			"Name":              host.Text(name + " Prime"),
			"CommonSubstanceID": host.Text("LAND1"),
		}),
		planet.FieldGeneration: host.RecordOf(host.MapRecord{
			"Seed":  host.RecordOf(host.MapRecord{"Seed": host.Int(987654)}),
			"Biome": host.Symbol("Lush", 0),
		}),
	})

	return host.MapRecord{
		system.FieldSystemData: host.RecordOf(host.MapRecord{
			"Name":     host.Bytes([]byte(name + "\x00")),
			"Seed":     host.Seed(12345),
			"StarType": host.Int(1),
			system.FieldTradingData: host.RecordOf(host.MapRecord{
				"Wealth": host.Int(2),
			}),
		}),
		snapshot.FieldPlanets: host.List(slot),
	}
}

package snapshot

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"system-exporter/internal/enum"
	"system-exporter/internal/extract"
	"system-exporter/internal/host"
	"system-exporter/internal/planet"
	"system-exporter/internal/resource"
	"system-exporter/internal/system"
)

var fixedTime = time.Date(2026, 10, 17, 21, 4, 5, 123000000, time.UTC)

func newTestBuilder() *Builder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	decoder := enum.NewDecoder(logger)
	ctx := extract.NewContext(decoder, resource.Default(), logger)
	scorer := planet.NewScorer(planet.DefaultRules(), decoder, logger)
	return NewBuilder(ctx, scorer).WithClock(func() time.Time { return fixedTime })
}

// acceptedSlot scores 9: name, seed, biome and resource.
func acceptedSlot() host.Value {
	return host.RecordOf(host.MapRecord{
		planet.FieldData: host.RecordOf(host.MapRecord{
			"Name":              host.Bytes([]byte("Eissentam Prime\x00")),
			"CommonSubstanceID": host.Text("LAND1"),
			"Life":              host.Int(3),
		}),
		planet.FieldGeneration: host.RecordOf(host.MapRecord{
			"Seed":        host.RecordOf(host.MapRecord{"Seed": host.Int(987654)}),
			"Biome":       host.Symbol("Lush", 0),
			"PlanetIndex": host.Int(25),
		}),
	})
}

// rejectedSlot scores 2: position and planet index only.
func rejectedSlot() host.Value {
	return host.RecordOf(host.MapRecord{
		planet.FieldPosition: host.Vector(5000, 0, 0),
		planet.FieldGeneration: host.RecordOf(host.MapRecord{
			"Seed":        host.Uninitialized(),
			"PlanetIndex": host.Int(1),
		}),
	})
}

func eissentam(slots ...host.Value) host.MapRecord {
	return host.MapRecord{
		system.FieldSystemData: host.RecordOf(host.MapRecord{
			"Name": host.Bytes([]byte("Eissentam")),
			"Seed": host.Seed(12345),
		}),
		FieldPlanets: host.List(slots...),
	}
}

func TestBuildEndToEnd(t *testing.T) {
	snap := newTestBuilder().Build(eissentam(rejectedSlot(), acceptedSlot(), host.Value{}))

	if snap.Version != Version || !snap.Timestamp.Equal(fixedTime) {
		t.Errorf("unexpected envelope: %s %v", snap.Version, snap.Timestamp)
	}
	if snap.Header.Error != "" {
		t.Fatalf("unexpected header error: %s", snap.Header.Error)
	}
	if snap.Header.DisplayName() != "Eissentam" || snap.Header.Seed == nil || snap.Header.Seed.String() != "12345" {
		t.Errorf("unexpected header: %+v", snap.Header)
	}
	if len(snap.Planets) != 1 {
		t.Fatalf("expected 1 planet, got %d", len(snap.Planets))
	}
	if snap.Planets[0].Index != 0 {
		t.Errorf("accepted planet must take index 0, got %d", snap.Planets[0].Index)
	}
	if snap.Header.PlanetCount == nil || *snap.Header.PlanetCount != 1 {
		t.Errorf("expected num_planetas 1, got %v", snap.Header.PlanetCount)
	}
}

func TestBuildAssignsSequentialIndices(t *testing.T) {
	snap := newTestBuilder().Build(eissentam(
		acceptedSlot(), rejectedSlot(), rejectedSlot(), acceptedSlot(), acceptedSlot(),
	))

	if len(snap.Planets) != 3 {
		t.Fatalf("expected 3 planets, got %d", len(snap.Planets))
	}
	for i, p := range snap.Planets {
		if p.Index != i {
			t.Errorf("planet %d has index %d", i, p.Index)
		}
	}
}

func TestBuildNilHandle(t *testing.T) {
	snap := newTestBuilder().Build(nil)

	if snap.Header.Error != system.NoDataMarker {
		t.Errorf("expected %q marker, got %q", system.NoDataMarker, snap.Header.Error)
	}
	if snap.Planets == nil || len(snap.Planets) != 0 {
		t.Errorf("expected empty planet list, got %v", snap.Planets)
	}
	if snap.HasData() {
		t.Error("nil handle snapshot must report no data")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"planetas":[]`) || !strings.Contains(string(data), `"error":"Sin datos"`) {
		t.Errorf("unexpected document: %s", data)
	}
}

// faultingRoot panics on one field, like a pointer freed mid-pass.
type faultingRoot struct {
	host.MapRecord
	field string
}

func (f faultingRoot) Field(name string) (host.Value, error) {
	if name == f.field {
		panic("access violation reading 0x0000000000000018")
	}
	return f.MapRecord.Field(name)
}

func TestBuildKeepsPartialSnapshotOnFault(t *testing.T) {
	root := faultingRoot{MapRecord: eissentam(acceptedSlot()), field: FieldPlanets}
	snap := newTestBuilder().Build(root)

	if !strings.Contains(snap.Header.Error, "access violation") {
		t.Errorf("expected header error, got %q", snap.Header.Error)
	}
	if snap.Header.DisplayName() != "Eissentam" {
		t.Errorf("header read before the fault must be kept, got %+v", snap.Header)
	}
}

func TestBuildMalformedPlanetSlots(t *testing.T) {
	root := eissentam()
	root[FieldPlanets] = host.Int(7)

	snap := newTestBuilder().Build(root)
	if snap.Header.Error == "" {
		t.Error("expected header error for a non-list planet field")
	}
	if snap.Header.PlanetCount == nil || *snap.Header.PlanetCount != 0 {
		t.Errorf("expected zero planets, got %v", snap.Header.PlanetCount)
	}
}

func TestBuildKeepsEveryFailure(t *testing.T) {
	root := eissentam()
	root[system.FieldSystemData] = host.Int(3)
	root[FieldPlanets] = host.Int(7)

	snap := newTestBuilder().Build(root)
	for _, want := range []string{"failed to read system data", "planet slots have unexpected kind"} {
		if !strings.Contains(snap.Header.Error, want) {
			t.Errorf("expected %q in header error, got %q", want, snap.Header.Error)
		}
	}
	if strings.Count(snap.Header.Error, "; ") != 1 {
		t.Errorf("expected two failures joined, got %q", snap.Header.Error)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	root := eissentam(acceptedSlot())
	data := root[system.FieldSystemData]
	rec, _ := data.RecordValue()
	header := rec.(host.MapRecord)
	header["StarType"] = host.Int(2)
	header["PirateStation"] = host.Bool(true)
	header[system.FieldTradingData] = host.RecordOf(host.MapRecord{
		"Wealth":        host.Int(1),
		"BuyBaseMarkup": host.Float(0.125),
	})
	header[system.FieldStationSpawn] = host.RecordOf(host.MapRecord{"Type": host.Int(9)})

	snap := newTestBuilder().Build(root)

	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded SystemSnapshot
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(*snap, decoded) {
		t.Errorf("round trip mismatch\nbuilt:   %+v\ndecoded: %+v", *snap, decoded)
	}
	if !strings.Contains(string(encoded), `"tipo": "Unknown_9"`) {
		t.Errorf("expected unknown station type in document")
	}
}

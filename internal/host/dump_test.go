package host

import (
	"errors"
	"strings"
	"testing"
)

const sampleDump = `{
	"mSolarSystemData": {
		"Name": {"$bytes": "RWlzc2VudGFtAAA="},
		"InhabitingRace": {"$symbol": "Traders_", "$value": 0},
		"StarType": {"$value": 3},
		"Seed": {"Seed": 12345},
		"PirateStation": true,
		"TradingData": {"BuyBaseMarkup": 0.15, "Wealth": 2}
	},
	"maPlanets": [
		{"mPosition": {"x": 1520.5, "y": -80, "z": 3300}},
		null,
		{"mPlanetGenerationInputData": {"Seed": {"$uninitialized": true}}}
	]
}`

func TestParseDumpShapes(t *testing.T) {
	root, err := ParseDump([]byte(sampleDump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := Child(root, "mSolarSystemData")
	if err != nil {
		t.Fatalf("system data: %v", err)
	}

	tests := []struct {
		field string
		kind  Kind
		check func(v Value) bool
	}{
		{"Name", KindBytes, func(v Value) bool { b, _ := v.RawBytes(); return string(b) == "Eissentam\x00\x00" }},
		{"InhabitingRace", KindSymbol, func(v Value) bool { n, _ := v.SymbolName(); return n == "Traders_" }},
		{"StarType", KindInt, func(v Value) bool { n, _ := v.Integer(); return n == 3 && v.IsWrapped() }},
		{"Seed", KindSeed, func(v Value) bool { n, _ := v.Integer(); return n == 12345 }},
		{"PirateStation", KindBool, func(v Value) bool { b, _ := v.BoolValue(); return b }},
		{"TradingData", KindRecord, func(v Value) bool { _, ok := v.RecordValue(); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			v, err := data.Field(tt.field)
			if err != nil {
				t.Fatalf("field: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Fatalf("expected %s, got %s", tt.kind, v.Kind())
			}
			if !tt.check(v) {
				t.Errorf("unexpected value: %s", v)
			}
		})
	}

	trading, err := Child(data, "TradingData")
	if err != nil {
		t.Fatalf("trading: %v", err)
	}
	markup, _ := trading.Field("BuyBaseMarkup")
	if f, ok := markup.FloatValue(); !ok || markup.Kind() != KindFloat || f != 0.15 {
		t.Errorf("unexpected markup: %s", markup)
	}
	wealth, _ := trading.Field("Wealth")
	if wealth.Kind() != KindInt || wealth.IsWrapped() {
		t.Errorf("plain integers must not be wrapped: %s", wealth.Kind())
	}
}

func TestParseDumpPlanetSlots(t *testing.T) {
	root, err := ParseDump([]byte(sampleDump))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	planets, err := root.Field("maPlanets")
	if err != nil {
		t.Fatalf("planets: %v", err)
	}
	slots, ok := planets.Items()
	if !ok || len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[1].IsValid() {
		t.Error("null slot must stay in place as an invalid value")
	}

	first, _ := slots[0].RecordValue()
	pos, _ := first.Field("mPosition")
	if x, y, z, ok := pos.VectorValue(); !ok || x != 1520.5 || y != -80 || z != 3300 {
		t.Errorf("unexpected position: %s", pos)
	}

	third, _ := slots[2].RecordValue()
	gen, err := Child(third, "mPlanetGenerationInputData")
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	seed, _ := gen.Field("Seed")
	if seed.Kind() != KindUninitialized {
		t.Errorf("expected uninitialized seed token, got %s", seed.Kind())
	}
}

func TestDumpRecordErrors(t *testing.T) {
	root, err := ParseDump([]byte(`{"Name": null, "Bad": {"$bytes": "%%%"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := root.Field("Absent"); !IsMissing(err) {
		t.Errorf("expected missing field, got %v", err)
	}
	if _, err := root.Field("Name"); !IsMissing(err) {
		t.Errorf("null must read as missing, got %v", err)
	}
	if _, err := root.Field("Bad"); err == nil || IsMissing(err) {
		t.Errorf("expected a decode error, got %v", err)
	}
	if _, err := Child(root, "Name"); !IsMissing(err) {
		t.Errorf("expected missing child, got %v", err)
	}

	names, err := root.FieldNames()
	if err != nil || strings.Join(names, ",") != "Bad,Name" {
		t.Errorf("unexpected field names: %v (%v)", names, err)
	}

	var released *DumpRecord
	if _, err := released.Field("Name"); !errors.Is(err, ErrStale) {
		t.Errorf("expected stale error, got %v", err)
	}
}

func TestParseDumpRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{`null`, `[1,2]`, `{"unterminated"`} {
		if _, err := ParseDump([]byte(doc)); err == nil {
			t.Errorf("expected error for %s", doc)
		}
	}
}

func TestParseDumpUnsignedSeeds(t *testing.T) {
	root, err := ParseDump([]byte(`{
		"Compound": {"Seed": 12345678901234567890, "UseSeedValue": true},
		"Bare": {"Seed": 18446744073709551615},
		"Small": {"Seed": 7},
		"TooLarge": 18446744073709551616
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	compound, err := Child(root, "Compound")
	if err != nil {
		t.Fatalf("compound: %v", err)
	}
	inner, _ := compound.Field("Seed")
	if u, ok := inner.Unsigned(); !ok || u != 12345678901234567890 || inner.Kind() != KindInt {
		t.Errorf("expected the full unsigned seed, got %s", inner)
	}
	if _, ok := inner.Integer(); ok {
		t.Error("a value above int64 must not read as int64")
	}

	bare, _ := root.Field("Bare")
	if u, ok := bare.Unsigned(); !ok || u != 18446744073709551615 || bare.Kind() != KindSeed {
		t.Errorf("expected a bare seed at the top of the range, got %s %s", bare.Kind(), bare)
	}
	if bare.String() != "18446744073709551615" {
		t.Errorf("unexpected rendering %q", bare.String())
	}

	small, _ := root.Field("Small")
	if n, ok := small.Integer(); !ok || n != 7 || small.Kind() != KindSeed {
		t.Errorf("expected seed 7, got %s", small)
	}

	tooLarge, _ := root.Field("TooLarge")
	if tooLarge.Kind() != KindFloat {
		t.Errorf("integers beyond 64 bits fall back to float, got %s", tooLarge.Kind())
	}
}

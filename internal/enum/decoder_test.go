package enum

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"system-exporter/internal/host"
)

func newTestDecoder() *Decoder {
	return NewDecoder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDecodeMatchesDomainMembership(t *testing.T) {
	d := newTestDecoder()

	for _, domain := range All() {
		t.Run(domain.Name(), func(t *testing.T) {
			for i := int64(-5); i < 64; i++ {
				name, ok := d.Decode(host.Int(i), domain, "field")
				_, member := domain.Lookup(i)
				if ok != member {
					t.Fatalf("decode(%d) ok=%v, membership=%v", i, ok, member)
				}
				if ok && strings.HasSuffix(name, "_") {
					t.Errorf("decode(%d) kept sentinel: %q", i, name)
				}
				if !ok && name != "" {
					t.Errorf("decode(%d) returned %q on failure", i, name)
				}
			}
		})
	}
}

func TestDecodeResolvedSymbolSkipsDomainCheck(t *testing.T) {
	d := newTestDecoder()

	name, ok := d.Decode(host.Symbol("None_", 99), WealthClass, "Wealth")
	if !ok || name != "None" {
		t.Errorf("expected resolved symbol None, got %q %v", name, ok)
	}
}

func TestDecodeCoercion(t *testing.T) {
	d := newTestDecoder()

	tests := []struct {
		name string
		raw  host.Value
		want string
		ok   bool
	}{
		{"wrapped value", host.Wrapped(2), "Wealthy", true},
		{"integral float", host.Float(3), "Pirate", true},
		{"float truncates", host.Float(1.9), "Average", true},
		{"bool", host.Bool(true), "Average", true},
		{"numeric text", host.Text(" 0 "), "Poor", true},
		{"non numeric text", host.Text("rich"), "", false},
		{"vector", host.Vector(1, 2, 3), "", false},
		{"record", host.RecordOf(host.MapRecord{}), "", false},
		{"invalid", host.Value{}, "", false},
		{"out of range", host.Int(4), "", false},
		{"negative", host.Int(-1), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Decode(tt.raw, WealthClass, "Wealth")
			if ok != tt.ok || got != tt.want {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestDecodeLogsOutOfRangeAtDebug(t *testing.T) {
	var buf bytes.Buffer
	d := NewDecoder(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if _, ok := d.Decode(host.Int(42), StarType, "StarType"); ok {
		t.Fatal("expected out of range value to be rejected")
	}

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "field=StarType", "value=42", "domain=cGcGalaxyStarTypes"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %s", want, out)
		}
	}
}

func TestNewDomainRejectsMalformedTables(t *testing.T) {
	if _, err := NewDomain("", map[int64]string{0: "A"}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := NewDomain("Empty", nil); err == nil {
		t.Error("expected error for empty domain")
	}
	if _, err := NewDomain("Dup", map[int64]string{0: "A", 1: "A"}); err == nil {
		t.Error("expected error for duplicate names")
	}
	if _, err := Sequential("Blank", "A", " "); err == nil {
		t.Error("expected error for blank member")
	}
}

func TestDomainOrdinalsSorted(t *testing.T) {
	d := MustDomain("Sparse", map[int64]string{10: "Ten", -1: "Minus", 3: "Three"})
	got := d.Ordinals()
	want := []int64{-1, 3, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

package enum

import (
	"log/slog"
	"math"
	"strconv"

	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
)

// Decoder turns raw host enum fields into canonical names. Values outside the
// declared domain are routine (reused or uninitialized memory) and decode to
// nothing.
type Decoder struct {
	logger *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{
		logger: logger.With("component", "enum_decoder"),
	}
}

// Decode returns the canonical, sentinel-free name for raw within domain.
func (d *Decoder) Decode(raw host.Value, domain *Domain, field string) (string, bool) {
	if name, ok := raw.SymbolName(); ok {
		return normalize.StripSentinel(name), true
	}

	n, ok := Coerce(raw)
	if !ok {
		d.logger.Debug("Enum value not coercible",
			"field", field,
			"kind", raw.Kind().String(),
		)
		return "", false
	}

	name, ok := domain.Lookup(n)
	if !ok {
		d.logger.Debug("Enum value out of range",
			"field", field,
			"value", n,
			"domain", domain.Name(),
		)
		return "", false
	}
	return normalize.StripSentinel(name), true
}

// Coerce converts raw to an integer the way a host accessor would: wrapped
// and plain integers pass through, floats truncate, booleans are 0/1 and
// numeric text is parsed.
func Coerce(raw host.Value) (int64, bool) {
	switch raw.Kind() {
	case host.KindInt, host.KindSymbol:
		return raw.Integer()
	case host.KindFloat:
		f, _ := raw.FloatValue()
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case host.KindBool:
		b, _ := raw.BoolValue()
		if b {
			return 1, true
		}
		return 0, true
	case host.KindText, host.KindBytes:
		s, ok := normalize.CleanText(raw)
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

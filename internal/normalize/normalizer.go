// Package normalize converts raw host values into a small set of JSON-safe
// primitives.
package normalize

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"system-exporter/internal/host"
)

// Sentinel is appended by the host to some symbol names that would clash with
// reserved words.
const Sentinel = "_"

// Normalize classifies a raw value. It never fails; anything unrecognized,
// compound, uninitialized or non-finite is Absent.
func Normalize(raw host.Value) FieldValue {
	switch raw.Kind() {
	case host.KindSymbol:
		name, _ := raw.SymbolName()
		return SymbolValue(StripSentinel(name))
	case host.KindBytes, host.KindText:
		if s, ok := CleanText(raw); ok {
			return TextValue(s)
		}
		return AbsentValue()
	case host.KindInt:
		if n, ok := raw.Integer(); ok {
			return IntValue(n)
		}
		u, _ := raw.Unsigned()
		return UintValue(u)
	case host.KindFloat:
		f, _ := raw.FloatValue()
		if !finite(f) {
			return AbsentValue()
		}
		return FloatValue(f)
	case host.KindBool:
		b, _ := raw.BoolValue()
		return BoolValue(b)
	case host.KindVector:
		x, y, z, _ := raw.VectorValue()
		if !finite(x) || !finite(y) || !finite(z) {
			return AbsentValue()
		}
		return VectorValue(x, y, z)
	case host.KindSeed:
		if n, ok := raw.Integer(); ok {
			return SeedValue(SignedSeed(n))
		}
		u, _ := raw.Unsigned()
		return SeedValue(UnsignedSeed(u))
	}
	// Records, lists and uninitialized seeds are never expanded.
	return AbsentValue()
}

// finite rejects NaN and infinities, which JSON cannot carry.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// StripSentinel removes one trailing sentinel character.
func StripSentinel(name string) string {
	return strings.TrimSuffix(name, Sentinel)
}

// CleanText turns a byte buffer or text value into a trimmed string.
// Invalid UTF-8 is dropped; NUL padding and surrounding whitespace are
// removed. Empty results report false.
func CleanText(raw host.Value) (string, bool) {
	var s string
	switch raw.Kind() {
	case host.KindBytes:
		b, _ := raw.RawBytes()
		s = decodeLossy(b)
	case host.KindText:
		s, _ = raw.TextValue()
		// Some mirrors stringify byte buffers as Python-style literals.
		if strings.HasPrefix(s, "b'") && strings.HasSuffix(s, "'") && len(s) >= 3 {
			s = s[2 : len(s)-1]
		}
		s = decodeLossy([]byte(s))
	case host.KindInt:
		if !raw.IsWrapped() {
			return "", false
		}
		s = raw.String()
	default:
		return "", false
	}

	s = strings.TrimFunc(s, func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	if s == "" {
		return "", false
	}
	return s, true
}

// decodeLossy decodes UTF-8, skipping invalid sequences.
func decodeLossy(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

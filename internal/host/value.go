package host

import (
	"fmt"
	"math"
)

// Kind identifies the shape of a raw value read from the host structure.
type Kind int

const (
	KindInvalid Kind = iota
	KindSymbol
	KindInt
	KindFloat
	KindBool
	KindBytes
	KindText
	KindVector
	KindSeed
	KindRecord
	KindList
	KindUninitialized
)

var kindNames = map[Kind]string{
	KindInvalid:       "invalid",
	KindSymbol:        "symbol",
	KindInt:           "int",
	KindFloat:         "float",
	KindBool:          "bool",
	KindBytes:         "bytes",
	KindText:          "text",
	KindVector:        "vector",
	KindSeed:          "seed",
	KindRecord:        "record",
	KindList:          "list",
	KindUninitialized: "uninitialized",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a closed union over the shapes a host field can take. The zero
// Value is KindInvalid.
type Value struct {
	kind     Kind
	name     string
	i        int64
	f        float64
	b        bool
	raw      []byte
	vec      [3]float64
	hasWrap  bool
	unsigned bool // i holds the bits of a value above math.MaxInt64
	record   Record
	list     []Value
}

// Symbol is an enumeration member the host has already resolved to a name.
func Symbol(name string, ordinal int64) Value {
	return Value{kind: KindSymbol, name: name, i: ordinal}
}

// Int is a plain integer field.
func Int(n int64) Value {
	return Value{kind: KindInt, i: n}
}

// Wrapped is an integer exposed through a value accessor, the way raw enum
// fields arrive before the host resolves them.
func Wrapped(n int64) Value {
	return Value{kind: KindInt, i: n, hasWrap: true}
}

// Uint is an unsigned 64-bit integer field. Values that fit int64 are plain Ints.
func Uint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Value{kind: KindInt, i: int64(u), unsigned: true}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Bytes is a fixed-size character buffer; it may contain NUL padding and
// invalid UTF-8.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: b}
}

func Text(s string) Value {
	return Value{kind: KindText, name: s}
}

func Vector(x, y, z float64) Value {
	return Value{kind: KindVector, vec: [3]float64{x, y, z}}
}

// Seed is a standalone seed holder exposing a single integer.
func Seed(n int64) Value {
	return Value{kind: KindSeed, i: n}
}

// SeedUint is a seed holder whose integer may exceed int64.
func SeedUint(u uint64) Value {
	v := Uint(u)
	v.kind = KindSeed
	return v
}

func RecordOf(r Record) Value {
	return Value{kind: KindRecord, record: r}
}

func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Uninitialized marks a seed slot the host has not generated yet.
func Uninitialized() Value {
	return Value{kind: KindUninitialized}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind != KindInvalid }

// SymbolName returns the resolved name of a symbol value.
func (v Value) SymbolName() (string, bool) {
	if v.kind != KindSymbol {
		return "", false
	}
	return v.name, true
}

// Integer returns the integer payload of int, seed and symbol values. It
// fails for unsigned values above math.MaxInt64.
func (v Value) Integer() (int64, bool) {
	switch v.kind {
	case KindInt, KindSeed, KindSymbol:
		if v.unsigned {
			return 0, false
		}
		return v.i, true
	}
	return 0, false
}

// Unsigned returns the payload of non-negative int and seed values.
func (v Value) Unsigned() (uint64, bool) {
	if v.kind != KindInt && v.kind != KindSeed {
		return 0, false
	}
	if !v.unsigned && v.i < 0 {
		return 0, false
	}
	return uint64(v.i), true
}

// IsWrapped reports whether an int value came through a value accessor.
func (v Value) IsWrapped() bool { return v.hasWrap }

func (v Value) FloatValue() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) BoolValue() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) RawBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.raw, true
}

func (v Value) TextValue() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.name, true
}

func (v Value) VectorValue() (x, y, z float64, ok bool) {
	if v.kind != KindVector {
		return 0, 0, 0, false
	}
	return v.vec[0], v.vec[1], v.vec[2], true
}

func (v Value) RecordValue() (Record, bool) {
	if v.kind != KindRecord || v.record == nil {
		return nil, false
	}
	return v.record, true
}

func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

func (v Value) String() string {
	switch v.kind {
	case KindSymbol:
		return v.name
	case KindInt, KindSeed:
		if v.unsigned {
			return fmt.Sprintf("%d", uint64(v.i))
		}
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindBytes:
		return fmt.Sprintf("<bytes: %d>", len(v.raw))
	case KindText:
		return v.name
	case KindVector:
		return fmt.Sprintf("(%g, %g, %g)", v.vec[0], v.vec[1], v.vec[2])
	case KindList:
		return fmt.Sprintf("<list: %d>", len(v.list))
	}
	return "<" + v.kind.String() + ">"
}

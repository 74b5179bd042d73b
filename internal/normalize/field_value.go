package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	Absent Kind = iota
	Number
	Text
	Vector3
	Symbol
	Seed
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Vector3:
		return "vector3"
	case Symbol:
		return "symbol"
	case Seed:
		return "seed"
	}
	return "absent"
}

type numberKind int

const (
	numInt numberKind = iota
	numFloat
	numBool
	numUint
)

// Vec3 is a position or direction in host space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FieldValue is the normalized form of one host field. The zero value is
// Absent.
type FieldValue struct {
	kind Kind
	nk   numberKind
	i    int64
	u    uint64
	f    float64
	s    string
	vec  Vec3
	seed SeedID
}

func AbsentValue() FieldValue { return FieldValue{} }

func IntValue(n int64) FieldValue { return FieldValue{kind: Number, nk: numInt, i: n} }

// UintValue holds an integer above math.MaxInt64.
func UintValue(u uint64) FieldValue { return FieldValue{kind: Number, nk: numUint, u: u} }

func FloatValue(f float64) FieldValue { return FieldValue{kind: Number, nk: numFloat, f: f} }

func BoolValue(b bool) FieldValue {
	v := FieldValue{kind: Number, nk: numBool}
	if b {
		v.i = 1
	}
	return v
}

func TextValue(s string) FieldValue { return FieldValue{kind: Text, s: s} }

func SymbolValue(name string) FieldValue { return FieldValue{kind: Symbol, s: name} }

func VectorValue(x, y, z float64) FieldValue {
	return FieldValue{kind: Vector3, vec: Vec3{X: x, Y: y, Z: z}}
}

func SeedValue(seed SeedID) FieldValue { return FieldValue{kind: Seed, seed: seed} }

func (v FieldValue) Kind() Kind { return v.kind }

// String returns the payload of text and symbol values.
func (v FieldValue) String() (string, bool) {
	if v.kind != Text && v.kind != Symbol {
		return "", false
	}
	return v.s, true
}

func (v FieldValue) Float() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	switch v.nk {
	case numFloat:
		return v.f, true
	case numUint:
		return float64(v.u), true
	}
	return float64(v.i), true
}

// Int returns integral numbers and seeds. Floats qualify only when integral.
func (v FieldValue) Int() (int64, bool) {
	switch v.kind {
	case Seed:
		if v.seed.unsigned {
			return 0, false
		}
		return v.seed.n, true
	case Number:
		switch v.nk {
		case numUint:
			return 0, false
		case numInt, numBool:
			return v.i, true
		}
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return int64(v.f), true
		}
	}
	return 0, false
}

// Bool accepts booleans and integer flags.
func (v FieldValue) Bool() (bool, bool) {
	if v.kind != Number || v.nk == numFloat || v.nk == numUint {
		return false, false
	}
	return v.i != 0, true
}

func (v FieldValue) Vector() (Vec3, bool) {
	if v.kind != Vector3 {
		return Vec3{}, false
	}
	return v.vec, true
}

// Seed returns the payload of seed values.
func (v FieldValue) Seed() (SeedID, bool) {
	if v.kind != Seed {
		return SeedID{}, false
	}
	return v.seed, true
}

// Display renders the value for diagnostics.
func (v FieldValue) Display() string {
	switch v.kind {
	case Number:
		switch v.nk {
		case numBool:
			return strconv.FormatBool(v.i != 0)
		case numFloat:
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		case numUint:
			return strconv.FormatUint(v.u, 10)
		}
		return strconv.FormatInt(v.i, 10)
	case Seed:
		return v.seed.String()
	case Text, Symbol:
		return v.s
	case Vector3:
		return fmt.Sprintf("(%g, %g, %g)", v.vec.X, v.vec.Y, v.vec.Z)
	}
	return "(vacío)"
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		switch v.nk {
		case numBool:
			return json.Marshal(v.i != 0)
		case numFloat:
			if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
				return []byte("null"), nil
			}
			return json.Marshal(v.f)
		case numUint:
			return json.Marshal(v.u)
		}
		return json.Marshal(v.i)
	case Seed:
		return v.seed.MarshalJSON()
	case Text, Symbol:
		return json.Marshal(v.s)
	case Vector3:
		return json.Marshal(v.vec)
	}
	return []byte("null"), nil
}

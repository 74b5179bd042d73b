package host

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Markers used by the host mirror to tag shapes JSON cannot express.
const (
	markerSymbol        = "$symbol"
	markerValue         = "$value"
	markerBytes         = "$bytes"
	markerUninitialized = "$uninitialized"
	markerConstruct     = "$construct"
)

// DumpRecord is a Record over a JSON mirror of the live structure written by
// the host. Values are converted lazily, one field at a time.
type DumpRecord struct {
	fields map[string]any
}

// DecodeDump parses a mirror document whose root is an object.
func DecodeDump(r io.Reader) (*DumpRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode host dump: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("failed to decode host dump: %w", ErrNoHandle)
	}
	return &DumpRecord{fields: root}, nil
}

// ParseDump is DecodeDump over a byte slice.
func ParseDump(data []byte) (*DumpRecord, error) {
	return DecodeDump(bytes.NewReader(data))
}

func (d *DumpRecord) Field(name string) (Value, error) {
	if d == nil || d.fields == nil {
		return Value{}, ErrStale
	}
	raw, ok := d.fields[name]
	if !ok {
		return Value{}, fmt.Errorf("%s: %w", name, ErrFieldMissing)
	}
	v, err := convert(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func (d *DumpRecord) FieldNames() ([]string, error) {
	if d == nil || d.fields == nil {
		return nil, ErrStale
	}
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func convert(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, ErrFieldMissing
	case bool:
		return Bool(t), nil
	case json.Number:
		if n, ok := integer(t); ok {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case string:
		return Text(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := convert(item)
			if err != nil {
				// A null slot stays in place so slot positions are preserved.
				items = append(items, Value{})
				continue
			}
			items = append(items, v)
		}
		return List(items...), nil
	case map[string]any:
		return convertObject(t)
	}
	return Value{}, fmt.Errorf("unsupported dump type %T", raw)
}

func convertObject(obj map[string]any) (Value, error) {
	if name, ok := obj[markerSymbol].(string); ok {
		var ordinal int64
		if n, ok := obj[markerValue].(json.Number); ok {
			ordinal, _ = n.Int64()
		}
		return Symbol(name, ordinal), nil
	}
	if n, ok := obj[markerValue].(json.Number); ok && len(obj) == 1 {
		i, err := n.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid wrapped value %q: %w", n.String(), err)
		}
		return Wrapped(i), nil
	}
	if encoded, ok := obj[markerBytes].(string); ok {
		b, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Value{}, fmt.Errorf("invalid byte string: %w", err)
		}
		return Bytes(b), nil
	}
	if _, ok := obj[markerUninitialized]; ok {
		return Uninitialized(), nil
	}
	if len(obj) == 3 {
		x, okX := number(obj["x"])
		y, okY := number(obj["y"])
		z, okZ := number(obj["z"])
		if okX && okY && okZ {
			return Vector(x, y, z), nil
		}
	}
	if len(obj) == 1 {
		if n, ok := obj["Seed"].(json.Number); ok {
			if v, ok := integer(n); ok {
				v.kind = KindSeed
				return v, nil
			}
		}
	}
	return RecordOf(&DumpRecord{fields: obj}), nil
}

// integer converts an integral literal. Host seeds are unsigned 64-bit, so
// literals above math.MaxInt64 are kept through Uint.
func integer(n json.Number) (Value, bool) {
	lit := n.String()
	if strings.ContainsAny(lit, ".eE") {
		return Value{}, false
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(i), true
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return Uint(u), true
	}
	return Value{}, false
}

func number(raw any) (float64, bool) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

package host

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrFieldMissing means the record does not expose the field at all.
	ErrFieldMissing = errors.New("field missing")
	// ErrStale means the backing memory changed or was released under us.
	ErrStale = errors.New("handle is stale")
	// ErrNoHandle means nothing has been observed yet.
	ErrNoHandle = errors.New("no handle")
	// ErrNotRecord means a field expected to be a nested record had another shape.
	ErrNotRecord = errors.New("field is not a record")
)

// Record is a read-only view into host-owned memory. Every call may fail
// independently; no liveness is guaranteed between calls.
type Record interface {
	Field(name string) (Value, error)
	FieldNames() ([]string, error)
}

// Child reads a nested record field.
func Child(r Record, name string) (Record, error) {
	if r == nil {
		return nil, ErrNoHandle
	}
	v, err := r.Field(name)
	if err != nil {
		return nil, err
	}
	rec, ok := v.RecordValue()
	if !ok {
		return nil, fmt.Errorf("%s: %w (got %s)", name, ErrNotRecord, v.Kind())
	}
	return rec, nil
}

// IsMissing reports whether err only signals an absent field.
func IsMissing(err error) bool {
	return errors.Is(err, ErrFieldMissing)
}

// MapRecord is an in-memory Record, used for fixtures and decoded dumps.
type MapRecord map[string]Value

func (m MapRecord) Field(name string) (Value, error) {
	v, ok := m[name]
	if !ok {
		return Value{}, fmt.Errorf("%s: %w", name, ErrFieldMissing)
	}
	return v, nil
}

func (m MapRecord) FieldNames() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

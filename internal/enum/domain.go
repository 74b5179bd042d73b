// Package enum validates raw host integers against declared enumerations.
package enum

import (
	"fmt"
	"sort"
	"strings"
)

// Domain is a closed integer-keyed enumeration. It is declared once and never
// mutated.
type Domain struct {
	name     string
	names    map[int64]string
	ordinals []int64
}

// NewDomain builds a domain from explicit ordinal/name pairs.
func NewDomain(name string, members map[int64]string) (*Domain, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("domain name is required")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("domain %s: at least one member is required", name)
	}

	d := &Domain{
		name:     name,
		names:    make(map[int64]string, len(members)),
		ordinals: make([]int64, 0, len(members)),
	}
	seen := make(map[string]int64, len(members))
	for ordinal, member := range members {
		if strings.TrimSpace(member) == "" {
			return nil, fmt.Errorf("domain %s: member %d has an empty name", name, ordinal)
		}
		if other, dup := seen[member]; dup {
			return nil, fmt.Errorf("domain %s: name %q used by %d and %d", name, member, other, ordinal)
		}
		seen[member] = ordinal
		d.names[ordinal] = member
		d.ordinals = append(d.ordinals, ordinal)
	}
	sort.Slice(d.ordinals, func(i, j int) bool { return d.ordinals[i] < d.ordinals[j] })
	return d, nil
}

// Sequential builds a domain whose members are numbered from zero.
func Sequential(name string, members ...string) (*Domain, error) {
	m := make(map[int64]string, len(members))
	for i, member := range members {
		m[int64(i)] = member
	}
	return NewDomain(name, m)
}

// MustSequential is Sequential for package-level declarations; a malformed
// table is a programming error.
func MustSequential(name string, members ...string) *Domain {
	d, err := Sequential(name, members...)
	if err != nil {
		panic(err)
	}
	return d
}

func MustDomain(name string, members map[int64]string) *Domain {
	d, err := NewDomain(name, members)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Domain) Name() string { return d.name }

// Lookup returns the raw member name, sentinel included.
func (d *Domain) Lookup(ordinal int64) (string, bool) {
	name, ok := d.names[ordinal]
	return name, ok
}

// Ordinals lists the declared keys in ascending order.
func (d *Domain) Ordinals() []int64 {
	out := make([]int64, len(d.ordinals))
	copy(out, d.ordinals)
	return out
}

func (d *Domain) Len() int { return len(d.ordinals) }

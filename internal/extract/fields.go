// Package extract reads declared host fields into typed section records. Each
// field is read independently; a failed read leaves only that field unset.
package extract

import (
	"fmt"
	"log/slog"

	"system-exporter/internal/enum"
	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
	"system-exporter/internal/resource"
)

// Context carries the collaborators shared by every extractor in a pass.
type Context struct {
	Decoder   *enum.Decoder
	Resources *resource.Table
	Logger    *slog.Logger
}

func NewContext(decoder *enum.Decoder, resources *resource.Table, logger *slog.Logger) *Context {
	return &Context{
		Decoder:   decoder,
		Resources: resources,
		Logger:    logger,
	}
}

// Field describes one source field and how to store it in T.
type Field[T any] struct {
	Source string
	Key    string
	assign func(ctx *Context, raw host.Value, dst *T) bool
}

// Apply reads every field from rec into dst and returns the keys written.
func Apply[T any](ctx *Context, rec host.Record, fields []Field[T], dst *T) []string {
	written := make([]string, 0, len(fields))
	for _, f := range fields {
		if applyOne(ctx, rec, f, dst) {
			written = append(written, f.Key)
		}
	}
	return written
}

func applyOne[T any](ctx *Context, rec host.Record, f Field[T], dst *T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger.Debug("Field read faulted", "field", f.Source, "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	raw, err := rec.Field(f.Source)
	if err != nil {
		if !host.IsMissing(err) {
			ctx.Logger.Debug("Field read failed", "field", f.Source, "error", err)
		}
		return false
	}
	return f.assign(ctx, raw, dst)
}

// Text stores a cleaned byte-string or text field.
func Text[T any](source, key string, slot func(*T) **string) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(_ *Context, raw host.Value, dst *T) bool {
		s, ok := normalize.CleanText(raw)
		if !ok {
			return false
		}
		*slot(dst) = &s
		return true
	}}
}

// Resource stores a substance id and its translated display name.
func Resource[T any](source, key string, slot func(*T) **string, translated func(*T) **string) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(ctx *Context, raw host.Value, dst *T) bool {
		v := normalize.Normalize(raw)
		s, ok := v.String()
		if !ok || s == "" {
			return false
		}
		name := ctx.Resources.Translate(s)
		*slot(dst) = &s
		*translated(dst) = &name
		return true
	}}
}

// Symbol stores a field decoded against domain.
func Symbol[T any](source, key string, domain *enum.Domain, slot func(*T) **string) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(ctx *Context, raw host.Value, dst *T) bool {
		name, ok := ctx.Decoder.Decode(raw, domain, source)
		if !ok || name == "" {
			return false
		}
		*slot(dst) = &name
		return true
	}}
}

// Float stores a numeric field.
func Float[T any](source, key string, slot func(*T) **float64) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(_ *Context, raw host.Value, dst *T) bool {
		f, ok := normalize.Normalize(raw).Float()
		if !ok {
			return false
		}
		*slot(dst) = &f
		return true
	}}
}

// Int stores an integral numeric field.
func Int[T any](source, key string, slot func(*T) **int64) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(_ *Context, raw host.Value, dst *T) bool {
		n, ok := normalize.Normalize(raw).Int()
		if !ok {
			return false
		}
		*slot(dst) = &n
		return true
	}}
}

// Bool stores a boolean or integer flag field.
func Bool[T any](source, key string, slot func(*T) **bool) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(_ *Context, raw host.Value, dst *T) bool {
		b, ok := normalize.Normalize(raw).Bool()
		if !ok {
			return false
		}
		*slot(dst) = &b
		return true
	}}
}

// Seed stores the integer of a seed holder. The holder is either a bare seed
// value or a compound record exposing a Seed integer.
func Seed[T any](source, key string, accept func(normalize.SeedID) bool, slot func(*T) **normalize.SeedID) Field[T] {
	return Field[T]{Source: source, Key: key, assign: func(_ *Context, raw host.Value, dst *T) bool {
		seed, ok := SeedOf(raw)
		if !ok || (accept != nil && !accept(seed)) {
			return false
		}
		*slot(dst) = &seed
		return true
	}}
}

// SeedOf reads the integer inside a seed holder.
func SeedOf(raw host.Value) (normalize.SeedID, bool) {
	switch raw.Kind() {
	case host.KindSeed:
		return normalize.Normalize(raw).Seed()
	case host.KindRecord:
		rec, ok := raw.RecordValue()
		if !ok {
			return normalize.SeedID{}, false
		}
		inner, err := rec.Field("Seed")
		if err != nil {
			return normalize.SeedID{}, false
		}
		switch inner.Kind() {
		case host.KindSeed:
			return normalize.Normalize(inner).Seed()
		case host.KindInt:
			if n, ok := inner.Integer(); ok {
				return normalize.SignedSeed(n), true
			}
			u, _ := inner.Unsigned()
			return normalize.UnsignedSeed(u), true
		}
	}
	return normalize.SeedID{}, false
}

// Custom wraps an arbitrary assignment for fields with bespoke rules.
func Custom[T any](source, key string, assign func(ctx *Context, raw host.Value, dst *T) bool) Field[T] {
	return Field[T]{Source: source, Key: key, assign: assign}
}

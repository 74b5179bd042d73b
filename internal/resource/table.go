// Package resource maps canonical substance ids to display names.
package resource

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is the locale of the persisted *_es keys.
const DefaultLocale = "es"

var supported = []language.Tag{language.Spanish, language.English}

var localeNames = map[language.Tag]map[string]string{
	language.Spanish: spanishNames,
	language.English: englishNames,
}

// Table translates resource ids. It is immutable after construction.
type Table struct {
	tag     language.Tag
	printer *message.Printer
	size    int
}

// NewTable builds a table for the closest supported match of locale.
func NewTable(locale string) (*Table, error) {
	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource locale %q: %w", locale, err)
	}

	matcher := language.NewMatcher(supported)
	_, index, _ := matcher.Match(requested)
	tag := supported[index]

	builder := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	names := localeNames[tag]
	for id, name := range names {
		if err := builder.SetString(tag, id, name); err != nil {
			return nil, fmt.Errorf("failed to register resource %s: %w", id, err)
		}
	}

	return &Table{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		size:    len(names),
	}, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide Spanish table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(DefaultLocale)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Translate returns the display name for id, or id unchanged when unknown.
func (t *Table) Translate(id string) string {
	if id == "" {
		return id
	}
	// Unknown ids never reach the printer, which would read them as a format.
	if !t.Known(id) {
		return id
	}
	key := strings.ToUpper(strings.TrimSpace(id))
	return t.printer.Sprintf(message.Key(key, key))
}

// Known reports whether id has a display name.
func (t *Table) Known(id string) bool {
	_, ok := localeNames[t.tag][strings.ToUpper(strings.TrimSpace(id))]
	return ok
}

func (t *Table) Locale() string { return t.tag.String() }

func (t *Table) Len() int { return t.size }

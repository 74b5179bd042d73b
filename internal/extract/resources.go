package extract

import "system-exporter/internal/resource"

// ResourceList collects unique substance ids in first-seen order with an
// index-aligned list of display names.
type ResourceList struct {
	table      *resource.Table
	limit      int
	ids        []string
	translated []string
}

// NewResourceList returns an empty list; limit <= 0 means unbounded.
func NewResourceList(table *resource.Table, limit int) *ResourceList {
	return &ResourceList{table: table, limit: limit}
}

// Add appends id unless it is empty, already present, or the list is full.
func (l *ResourceList) Add(id string) bool {
	if id == "" {
		return false
	}
	if l.limit > 0 && len(l.ids) >= l.limit {
		return false
	}
	for _, existing := range l.ids {
		if existing == id {
			return false
		}
	}
	l.ids = append(l.ids, id)
	l.translated = append(l.translated, l.table.Translate(id))
	return true
}

func (l *ResourceList) Len() int { return len(l.ids) }

// IDs returns the collected ids, nil when empty.
func (l *ResourceList) IDs() []string {
	if len(l.ids) == 0 {
		return nil
	}
	return append([]string(nil), l.ids...)
}

// Translated returns display names aligned with IDs, nil when empty.
func (l *ResourceList) Translated() []string {
	if len(l.translated) == 0 {
		return nil
	}
	return append([]string(nil), l.translated...)
}

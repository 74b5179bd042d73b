package snapshot

import (
	"fmt"
	"log/slog"
	"strings"

	"system-exporter/internal/host"
	"system-exporter/internal/normalize"
	"system-exporter/internal/system"
)

// ReportLine is one field of a debug section.
type ReportLine struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ReportSection struct {
	Name  string       `json:"name"`
	Lines []ReportLine `json:"lines"`
	Error string       `json:"error,omitempty"`
}

// Report is a diagnostic dump of the raw header records. It is not part of
// the persisted snapshot.
type Report struct {
	Sections []ReportSection `json:"sections"`
}

// DumpStructure renders every field of the header, trading and station records.
func DumpStructure(handle host.Record) (*Report, error) {
	if handle == nil {
		return nil, host.ErrNoHandle
	}

	data, err := host.Child(handle, system.FieldSystemData)
	if err != nil {
		return nil, fmt.Errorf("failed to read system data: %w", err)
	}

	report := &Report{}
	report.Sections = append(report.Sections, dumpSection(system.FieldSystemData, data))

	for _, name := range []string{system.FieldTradingData, system.FieldStationSpawn} {
		child, err := host.Child(data, name)
		if err != nil {
			if !host.IsMissing(err) {
				report.Sections = append(report.Sections, ReportSection{Name: name, Error: err.Error()})
			}
			continue
		}
		report.Sections = append(report.Sections, dumpSection(name, child))
	}
	return report, nil
}

func dumpSection(name string, rec host.Record) ReportSection {
	section := ReportSection{Name: name}

	fields, err := rec.FieldNames()
	if err != nil {
		section.Error = err.Error()
		return section
	}

	for _, field := range fields {
		section.Lines = append(section.Lines, ReportLine{Field: field, Value: displayField(rec, field)})
	}
	return section
}

func displayField(rec host.Record, field string) (display string) {
	defer func() {
		if r := recover(); r != nil {
			display = fmt.Sprintf("ERROR: %v", r)
		}
	}()

	raw, err := rec.Field(field)
	if err != nil {
		return "ERROR: " + err.Error()
	}

	switch raw.Kind() {
	case host.KindSymbol:
		name, _ := raw.SymbolName()
		return normalize.StripSentinel(name) + " (enum)"
	case host.KindBytes, host.KindText:
		if s, ok := normalize.CleanText(raw); ok {
			return fmt.Sprintf("%q", s)
		}
		return normalize.AbsentValue().Display()
	case host.KindInt, host.KindFloat, host.KindBool, host.KindSeed, host.KindVector:
		return normalize.Normalize(raw).Display()
	}
	return "<" + raw.Kind().String() + ">"
}

// Lines renders the report as text, one line per field.
func (r *Report) Lines() []string {
	rule := strings.Repeat("=", 80)

	var lines []string
	for _, section := range r.Sections {
		lines = append(lines, rule, "Structure of "+section.Name)
		if section.Error != "" {
			lines = append(lines, fmt.Sprintf("  ERROR: %s", section.Error))
			continue
		}
		for _, line := range section.Lines {
			lines = append(lines, fmt.Sprintf("  %-35s = %s", line.Field, line.Value))
		}
	}
	return append(lines, rule)
}

// Log writes the report through logger.
func (r *Report) Log(logger *slog.Logger) {
	for _, line := range r.Lines() {
		logger.Info(line)
	}
}

package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"system-exporter/internal/export"
	"system-exporter/internal/snapshot"
)

// Commands are the four triggers bound to keys.
type Commands interface {
	Export(ctx context.Context) (*export.Result, error)
	Consolidate(ctx context.Context) (*export.ConsolidateResult, error)
	ToggleAutoExport(ctx context.Context) (bool, error)
	DumpStructure(ctx context.Context) (*snapshot.Report, error)
}

const (
	KeyExport      = 'u'
	KeyConsolidate = 'i'
	KeyToggleAuto  = 'o'
	KeyDump        = 'd'
)

// Bound reports whether key triggers a command.
func Bound(key rune) bool {
	switch key {
	case KeyExport, KeyConsolidate, KeyToggleAuto, KeyDump:
		return true
	}
	return false
}

// Execute runs the command bound to key and returns the lines to display.
func Execute(ctx context.Context, cmds Commands, key rune) []string {
	switch key {
	case KeyExport:
		result, err := cmds.Export(ctx)
		if err != nil {
			if isStatus(err, http.StatusServiceUnavailable) {
				return []string{"No system loaded"}
			}
			return []string{"Export failed: " + err.Error()}
		}
		lines := []string{fmt.Sprintf("Exported %s, planets: %d, total exports: %d", result.File, result.Planets, result.Total)}
		if result.HeaderError != "" {
			lines = append(lines, "Snapshot is partial: "+result.HeaderError)
		}
		return lines

	case KeyConsolidate:
		result, err := cmds.Consolidate(ctx)
		if err != nil {
			if isStatus(err, http.StatusNotFound) {
				return []string{"Nothing to consolidate"}
			}
			return []string{"Consolidation failed: " + err.Error()}
		}
		return []string{fmt.Sprintf("Consolidated %d systems into %s", result.Systems, result.Path)}

	case KeyToggleAuto:
		enabled, err := cmds.ToggleAutoExport(ctx)
		if err != nil {
			return []string{"Toggle failed: " + err.Error()}
		}
		if enabled {
			return []string{"Auto-export: ON"}
		}
		return []string{"Auto-export: OFF"}

	case KeyDump:
		report, err := cmds.DumpStructure(ctx)
		if err != nil {
			if isStatus(err, http.StatusServiceUnavailable) {
				return []string{"No system loaded"}
			}
			return []string{"Dump failed: " + err.Error()}
		}
		return report.Lines()
	}
	return nil
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

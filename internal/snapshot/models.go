package snapshot

import (
	"time"

	"system-exporter/internal/planet"
	"system-exporter/internal/system"
)

// Version is the schema version written into every snapshot.
const Version = "3.5"

// FieldPlanets is the root field holding the planet slot array.
const FieldPlanets = "maPlanets"

// SystemSnapshot is the normalized output of one extraction pass.
type SystemSnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
	Header    system.Header   `json:"sistema"`
	Planets   []planet.Record `json:"planetas"`
}

// PlanetCount returns the number of accepted planets.
func (s *SystemSnapshot) PlanetCount() int {
	return len(s.Planets)
}

// HasData reports whether the snapshot was built from a live handle.
func (s *SystemSnapshot) HasData() bool {
	return s.Header.Error != system.NoDataMarker
}

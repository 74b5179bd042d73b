package export

import (
	"time"

	"system-exporter/internal/host"
)

// State is owned by the Service and only touched under its lock, never
// during a build.
type State struct {
	handle       host.Record
	totalExports int
	autoExport   bool
	debug        bool
	lastFile     string
	lastExport   time.Time
}

func NewState(autoExport, debug bool) *State {
	return &State{autoExport: autoExport, debug: debug}
}

// Stats is a copy of the state for callers outside the lock.
type Stats struct {
	SystemLoaded bool      `json:"system_loaded"`
	TotalExports int       `json:"total_exports"`
	AutoExport   bool      `json:"auto_export"`
	DebugMode    bool      `json:"debug_mode"`
	LastFile     string    `json:"last_file,omitempty"`
	LastExport   time.Time `json:"last_export,omitempty"`
	Subscribers  int       `json:"stream_subscribers"`
	Archived     int       `json:"archived_snapshots"`
}

func (s *State) stats() Stats {
	return Stats{
		SystemLoaded: s.handle != nil,
		TotalExports: s.totalExports,
		AutoExport:   s.autoExport,
		DebugMode:    s.debug,
		LastFile:     s.lastFile,
		LastExport:   s.lastExport,
	}
}

func (s *State) recordExport(file string, at time.Time) {
	s.totalExports++
	s.lastFile = file
	s.lastExport = at
}

package cfadmin

import (
	"strconv"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
)

// Environment variables shared between the launcher, the master and the
// workers.
const (
	markerMaster  = "cfadmin_isMaster"
	markerWorker  = "cfadmin_isWorker"
	markerWorkers = "cfadmin_nprocess"
	markerScript  = "cfadmin_script"

	// markerDaemon is only seen by the detached copy of the launcher.
	markerDaemon = "cfadmin_daemon"
)

var allMarkers = []string{markerMaster, markerWorker, markerWorkers, markerScript, markerDaemon}

// Encode writes m into e. Encoding RoleUnset removes every marker.
func (m Markers) Encode(e env.Environment) {
	switch m.Role {
	case RoleMaster:
		e.Unsetenv(markerWorker)
		e.Setenv(markerMaster, "true")
	case RoleWorker:
		e.Unsetenv(markerMaster)
		e.Setenv(markerWorker, "true")
	default:
		ClearMarkers(e)
		return
	}
	e.Setenv(markerScript, m.EntryScript)
	e.Setenv(markerWorkers, formatWorkers(m.Workers))
}

// ResolveRole reads the markers left in e by a previous invocation of
// cfadmin. The worker marker is only honored together with the script
// marker, and it wins over the master marker.
func ResolveRole(e env.Environment) Markers {
	m := Markers{
		EntryScript: e.Getenv(markerScript),
		Workers:     workerCount(e.Getenv(markerWorkers)),
	}

	_, isWorker := e.LookupEnv(markerWorker)
	_, hasScript := e.LookupEnv(markerScript)
	_, isMaster := e.LookupEnv(markerMaster)
	switch {
	case isWorker && hasScript:
		m.Role = RoleWorker
	case isMaster:
		m.Role = RoleMaster
	default:
		m.Role = RoleUnset
	}
	return m
}

// ClearMarkers removes every bootstrap marker from e.
func ClearMarkers(e env.Environment) {
	for _, k := range allMarkers {
		e.Unsetenv(k)
	}
}

// formatWorkers encodes a worker count on at most 3 characters.
func formatWorkers(n int) string {
	s := strconv.Itoa(n)
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

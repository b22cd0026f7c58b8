package cfadmin

import (
	"testing"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"github.com/stretchr/testify/assert"
)

func TestMarkersRoundTrip(t *testing.T) {
	for _, m := range []Markers{
		{Role: RoleMaster, EntryScript: "script/main.lua", Workers: 1},
		{Role: RoleMaster, EntryScript: "/srv/app/boot.lua", Workers: 255},
		{Role: RoleWorker, EntryScript: "script/main.lua", Workers: 8},
	} {
		e := env.NewLoader("PATH=/usr/bin")
		m.Encode(e)
		assert.Equal(t, m, ResolveRole(e), "markers for %s", m.Role)
		assert.Equal(t, "/usr/bin", e.Getenv("PATH"), "other variables are kept")
	}
}

func TestMarkersSwitchRole(t *testing.T) {
	e := env.NewLoader("PATH=/usr/bin")
	Markers{Role: RoleMaster, EntryScript: "a.lua", Workers: 3}.Encode(e)
	Markers{Role: RoleWorker, EntryScript: "a.lua", Workers: 3}.Encode(e)

	_, ok := e.LookupEnv(markerMaster)
	assert.False(t, ok, "the master marker is removed from worker environments")
	assert.Equal(t, "true", e.Getenv(markerWorker))

	Markers{Role: RoleUnset}.Encode(e)
	assert.Equal(t, []string{"PATH=/usr/bin"}, e.Environ())
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		expected Role
	}{
		{"no markers", []string{"HOME=/root"}, RoleUnset},
		{"master", []string{"cfadmin_isMaster=true", "cfadmin_script=a.lua"}, RoleMaster},
		{"worker", []string{"cfadmin_isWorker=true", "cfadmin_script=a.lua"}, RoleWorker},
		{"both markers", []string{"cfadmin_isMaster=true", "cfadmin_isWorker=true", "cfadmin_script=a.lua"}, RoleWorker},
		{"worker without script", []string{"cfadmin_isWorker=true"}, RoleUnset},
		{"worker without script under a master", []string{"cfadmin_isMaster=true", "cfadmin_isWorker=true"}, RoleMaster},
		{"empty script", []string{"cfadmin_isWorker=true", "cfadmin_script="}, RoleWorker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRole(env.NewLoader(tt.environ...)).Role)
		})
	}
}

func TestResolveRoleWorkers(t *testing.T) {
	for in, want := range map[string]int{
		"":    1,
		"0":   1,
		"1":   1,
		"12":  12,
		"255": 255,
		"256": 1,
		"x":   1,
	} {
		e := env.NewLoader("cfadmin_isMaster=true", "cfadmin_nprocess="+in)
		assert.Equal(t, want, ResolveRole(e).Workers, "cfadmin_nprocess=%q", in)
	}
}

func TestClearMarkers(t *testing.T) {
	e := env.NewLoader(
		"cfadmin_isMaster=true",
		"cfadmin_isWorker=true",
		"cfadmin_nprocess=4",
		"cfadmin_script=a.lua",
		"cfadmin_daemon=true",
		"TERM=xterm",
	)
	ClearMarkers(e)
	assert.Equal(t, []string{"TERM=xterm"}, e.Environ())
}

func TestFormatWorkers(t *testing.T) {
	assert.Equal(t, "1", formatWorkers(1))
	assert.Equal(t, "255", formatWorkers(255))
	assert.Equal(t, "100", formatWorkers(10000))
}

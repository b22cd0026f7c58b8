package cfadmin

import (
	"context"
	"syscall"
	"testing"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSupervise(t *testing.T) {
	sys := newFakeSystem()
	e := env.NewLoader("PATH=/usr/bin", "cfadmin_isMaster=true")

	var got []int
	b := New(
		WithSystem(sys),
		WithEnvironment(e),
		WithMasterLoop(func(_ context.Context, pids []int) int {
			got = pids
			return 7
		}),
	)

	code := b.Supervise(context.Background(), Markers{Role: RoleMaster, EntryScript: "app.lua", Workers: 5})
	assert.Equal(t, 7, code, "exit code comes from the master loop")
	assert.Equal(t, []int{5001, 5002, 5003, 5004, 5005}, got)
	assert.Empty(t, sys.kills, "nothing is rolled back")

	if !assert.Len(t, sys.spawns, 5) {
		return
	}
	for _, s := range sys.spawns {
		assert.Equal(t, "/usr/local/bin/cfadmin", s.Path)
		assert.Equal(t, []string{WorkerLabel}, s.Argv)

		w := env.NewLoader(s.Envv...)
		assert.Equal(t, "/usr/bin", w.Getenv("PATH"))
		assert.Equal(t, "true", w.Getenv(markerWorker))
		assert.Equal(t, "app.lua", w.Getenv(markerScript))
		assert.Equal(t, "5", w.Getenv(markerWorkers))
		_, isMaster := w.LookupEnv(markerMaster)
		assert.False(t, isMaster, "workers do not carry the master marker")
		assert.Equal(t, RoleWorker, ResolveRole(w).Role)
	}
}

func TestSuperviseRollback(t *testing.T) {
	sys := newFakeSystem()
	sys.spawnErrors = map[int]error{2: errors.New("resource temporarily unavailable")}

	called := false
	b := New(
		WithSystem(sys),
		WithEnvironment(env.NewLoader("cfadmin_isMaster=true")),
		WithMasterLoop(func(context.Context, []int) int {
			called = true
			return 0
		}),
	)

	code := b.Supervise(context.Background(), Markers{Role: RoleMaster, EntryScript: "app.lua", Workers: 5})
	assert.Equal(t, -1, code)
	assert.False(t, called, "master loop is not reached")
	assert.Len(t, sys.spawns, 3, "no worker is attempted after the failing one")
	assert.Equal(t, []int{5001, 5002, 3999}, sys.killedPids(), "started workers, then the parent of the master")
	for _, k := range sys.kills {
		assert.Equal(t, syscall.SIGQUIT, k.Signal)
	}
}

func TestSuperviseFirstSpawnFails(t *testing.T) {
	sys := newFakeSystem()
	sys.spawnErrors = map[int]error{0: errors.New("no such file or directory")}

	b := New(WithSystem(sys), WithEnvironment(env.NewLoader("cfadmin_isMaster=true")))
	assert.Equal(t, -1, b.Supervise(context.Background(), Markers{Role: RoleMaster, Workers: 3}))
	assert.Equal(t, []int{3999}, sys.killedPids())
}

func TestSuperviseOrphan(t *testing.T) {
	sys := newFakeSystem()
	sys.ppid = 1
	sys.spawnErrors = map[int]error{1: errors.New("fork failed")}

	b := New(WithSystem(sys), WithEnvironment(env.NewLoader("cfadmin_isMaster=true")))
	assert.Equal(t, -1, b.Supervise(context.Background(), Markers{Role: RoleMaster, Workers: 2}))
	assert.Equal(t, []int{5001}, sys.killedPids(), "init is never signaled")
}

func TestSuperviseWorkerCount(t *testing.T) {
	for in, want := range map[int]int{0: 1, -3: 1, 1: 1, 255: 255, 256: 1} {
		sys := newFakeSystem()
		var got []int
		b := New(
			WithSystem(sys),
			WithEnvironment(env.NewLoader("cfadmin_isMaster=true")),
			WithMasterLoop(func(_ context.Context, pids []int) int {
				got = pids
				return 0
			}),
		)
		b.Supervise(context.Background(), Markers{Role: RoleMaster, Workers: in})
		assert.Len(t, got, want, "workers for %d", in)
	}
}

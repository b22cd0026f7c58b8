package cfadmin

import (
	"syscall"

	"github.com/pkg/errors"
)

type spawnCall struct {
	Path string
	Argv []string
	Envv []string
}

type killCall struct {
	Pid    int
	Signal syscall.Signal
}

// fakeSystem records what the bootstrap asks of the operating system.
type fakeSystem struct {
	pid     int
	ppid    int
	exe     string
	nextPid int

	// spawnErrors maps a 0-based Spawn call index to the error it returns
	spawnErrors map[int]error
	execErr     error
	detachErr   error
	killErr     error

	// onExec runs before Exec returns, while the caller still waits on it
	onExec func(spawnCall)

	spawns   []spawnCall
	execs    []spawnCall
	kills    []killCall
	detached int
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		pid:     4000,
		ppid:    3999,
		exe:     "/usr/local/bin/cfadmin",
		nextPid: 5000,
		execErr: errors.New("exec format error"),
	}
}

func (s *fakeSystem) Getpid() int  { return s.pid }
func (s *fakeSystem) Getppid() int { return s.ppid }

func (s *fakeSystem) Executable() (string, error) {
	return s.exe, nil
}

func (s *fakeSystem) Kill(pid int, sig syscall.Signal) error {
	s.kills = append(s.kills, killCall{Pid: pid, Signal: sig})
	return s.killErr
}

func (s *fakeSystem) Exec(path string, argv, envv []string) error {
	call := spawnCall{Path: path, Argv: argv, Envv: envv}
	s.execs = append(s.execs, call)
	if s.onExec != nil {
		s.onExec(call)
	}
	return s.execErr
}

func (s *fakeSystem) Spawn(path string, argv, envv []string) (int, error) {
	i := len(s.spawns)
	s.spawns = append(s.spawns, spawnCall{Path: path, Argv: argv, Envv: envv})
	if err, ok := s.spawnErrors[i]; ok {
		return 0, err
	}
	s.nextPid++
	return s.nextPid, nil
}

func (s *fakeSystem) Detach() error {
	s.detached++
	return s.detachErr
}

func (s *fakeSystem) killedPids() []int {
	var pids []int
	for _, k := range s.kills {
		pids = append(pids, k.Pid)
	}
	return pids
}

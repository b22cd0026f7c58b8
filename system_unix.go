//go:build unix

package cfadmin

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type unixSystem struct{}

func newSystem() System {
	return unixSystem{}
}

func (unixSystem) Getpid() int {
	return unix.Getpid()
}

func (unixSystem) Getppid() int {
	return unix.Getppid()
}

func (unixSystem) Executable() (string, error) {
	return os.Executable()
}

func (unixSystem) Kill(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

func (unixSystem) Exec(path string, argv, envv []string) error {
	return unix.Exec(path, argv, envv)
}

func (unixSystem) Spawn(path string, argv, envv []string) (int, error) {
	p, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   envv,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return 0, err
	}

	// The process is waited for by pid later on, see MonitorWorkers
	pid := p.Pid
	p.Release()
	return pid, nil
}

func (unixSystem) Detach() error {
	return detach(os.DevNull)
}

// detach starts a new session and replaces the standard streams with
// nullDevice. Only a failure to open nullDevice or to duplicate it is
// reported.
func detach(nullDevice string) error {
	// fails when the process already leads a session, which is fine
	unix.Setsid()

	fd, err := unix.Open(nullDevice, unix.O_RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", nullDevice)
	}

	for stdfd := 0; stdfd <= 2; stdfd++ {
		if fd == stdfd {
			continue
		}
		if err := dupTo(fd, stdfd); err != nil {
			unix.Close(fd)
			return errors.Wrapf(err, "failed to redirect fd %d to %s", stdfd, nullDevice)
		}
	}

	if fd > 2 {
		unix.Close(fd)
	}
	return nil
}

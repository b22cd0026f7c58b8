package cfadmin

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Supervise runs the master: it starts m.Workers workers one after the
// other, then hands the list of their pids over to the master loop.
//
// When a worker cannot be started, the workers started before it and the
// parent of the master get QuitSignal, no further worker is attempted, and
// -1 is returned.
func (b *Bootstrap) Supervise(ctx context.Context, m Markers) int {
	n := m.Workers
	if n < 1 || n > MaxWorkers {
		n = 1
	}

	self, err := b.sys.Executable()
	if err != nil {
		b.logger.Error("failed to locate executable", zap.Error(err))
		b.rollback(nil)
		return -1
	}

	Markers{Role: RoleWorker, EntryScript: m.EntryScript, Workers: n}.Encode(b.env)
	environ := b.env.Environ()

	pids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pid, err := b.sys.Spawn(self, []string{WorkerLabel}, environ)
		if err == nil && pid <= 0 {
			err = errors.Errorf("invalid pid %d", pid)
		}
		if err != nil {
			b.logger.Error("failed to start worker", zap.Int("index", i), zap.Error(err))
			b.rollback(pids)
			return -1
		}

		b.logger.Debug("started worker", zap.Int("index", i), zap.Int("pid", pid))
		pids = append(pids, pid)
	}

	return b.master(ctx, pids)
}

// rollback sends QuitSignal to the given workers, in order, then to the
// parent of the current process. init is never signaled.
//
// The master took over the launcher's pid with exec, so its parent is
// whatever started cfadmin: usually the shell in the foreground, or init
// (or a subreaper) once the launcher of a daemon has exited.
func (b *Bootstrap) rollback(pids []int) {
	for _, pid := range pids {
		if err := b.quit(pid); err != nil {
			b.logger.Warn("rollback", zap.Error(err))
		}
	}

	ppid := b.sys.Getppid()
	if ppid <= 1 {
		return
	}
	if err := b.quit(ppid); err != nil {
		b.logger.Warn("rollback", zap.Error(err))
	}
}

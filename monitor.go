package cfadmin

import (
	"context"
	"os"
	"sort"

	"go.uber.org/zap"
)

type workerExit struct {
	pid   int
	state *os.ProcessState
	err   error
}

// MonitorWorkers is the default master loop. It waits for the workers to
// exit, and when ctx is done it sends QuitSignal to the workers still
// running and waits for them. Dead workers are not restarted.
func MonitorWorkers(ctx context.Context, logger *zap.Logger, pids []int) int {
	done := make(chan workerExit, len(pids))
	live := make(map[int]*os.Process, len(pids))
	for _, pid := range pids {
		p, err := os.FindProcess(pid)
		if err != nil {
			logger.Warn("failed to find worker", zap.Int("pid", pid), zap.Error(err))
			continue
		}
		live[pid] = p
		go func(p *os.Process) {
			st, err := p.Wait()
			done <- workerExit{pid: p.Pid, state: st, err: err}
		}(p)
	}
	logger.Info("master running", zap.Int("pid", os.Getpid()), zap.Ints("workers", pids))

	stopping := ctx.Done()
	for len(live) > 0 {
		select {
		case <-stopping:
			stopping = nil
			keys := make([]int, 0, len(live))
			for pid := range live {
				keys = append(keys, pid)
			}
			sort.Ints(keys)
			logger.Info("shutting down, sending signal to all workers",
				zap.String("signal", signame(QuitSignal)),
				zap.Ints("workers", keys),
			)
			for _, pid := range keys {
				if err := live[pid].Signal(QuitSignal); err != nil {
					logger.Warn("failed to signal worker", zap.Int("pid", pid), zap.Error(err))
				}
			}
		case ex := <-done:
			delete(live, ex.pid)
			switch {
			case ex.err != nil:
				logger.Warn("failed to wait for worker", zap.Int("pid", ex.pid), zap.Error(ex.err))
			case stopping == nil:
				logger.Info("worker exited", zap.Int("pid", ex.pid), zap.Stringer("status", ex.state))
			default:
				logger.Warn("worker died unexpectedly", zap.Int("pid", ex.pid), zap.Stringer("status", ex.state))
			}
		}
	}

	logger.Info("exiting")
	return 0
}

// Package cfadmin bootstraps a master process and a fixed pool of worker
// processes out of a single executable.
//
// The process started by the user parses the command line, optionally goes
// to the background, writes the pid file and replaces itself with the
// master. The master starts the workers as new processes of the same
// executable, then hands over to its run loop. The role of a process is
// carried by environment variables set by the process that started it.
package cfadmin

import (
	"context"
	"io"
	"os"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"go.uber.org/zap"
)

// New creates a Bootstrap working on the real process environment.
func New(options ...Option) *Bootstrap {
	b := &Bootstrap{
		usage:  os.Stdout,
		logger: zap.NewNop(),
	}

	for _, opt := range options {
		switch opt.Name() {
		case "system":
			b.sys = opt.Value().(System)
		case "environment":
			b.env = opt.Value().(env.Environment)
		case "logger":
			b.logger = opt.Value().(*zap.Logger)
		case "usage_output":
			b.usage = opt.Value().(io.Writer)
		case "master_loop":
			b.master = opt.Value().(MasterLoop)
		case "worker_loop":
			b.worker = opt.Value().(WorkerLoop)
		}
	}

	if b.sys == nil {
		b.sys = newSystem()
	}
	if b.env == nil {
		b.env = env.SystemEnvironment()
	}
	if b.master == nil {
		b.master = func(ctx context.Context, pids []int) int {
			return MonitorWorkers(ctx, b.logger, pids)
		}
	}
	if b.worker == nil {
		b.worker = func(ctx context.Context, entry string) int {
			return WaitForShutdown(ctx, b.logger, entry)
		}
	}
	return b
}

// Run executes the command line args (args[0] being the program name) in
// the role given by the environment, and returns the exit code.
func (b *Bootstrap) Run(ctx context.Context, args []string) int {
	inv, err := ParseArgs(args...)
	switch inv.Command {
	case CommandHelp:
		if err != nil {
			b.logger.Debug("invalid command line", zap.Error(err))
		}
		showHelp(b.usage)
		return 0
	case CommandKill:
		if err := b.Kill(inv.KillTarget, inv.Config); err != nil {
			b.logger.Error("kill failed", zap.String("target", inv.KillTarget), zap.Error(err))
		}
		return 0
	}

	m := ResolveRole(b.env)
	switch m.Role {
	case RoleWorker:
		return b.runWorker(ctx, m)
	case RoleMaster:
		return b.Supervise(ctx, m)
	}

	if len(args) == 0 {
		args = []string{"cfadmin"}
	}
	return b.launch(inv.Config, args)
}

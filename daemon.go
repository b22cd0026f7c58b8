package cfadmin

import (
	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"go.uber.org/zap"
)

// daemonize moves the bootstrap to the background. The launcher starts a
// copy of itself carrying the daemon marker and gets (false, 0): it is
// expected to exit right away. The copy detaches from the terminal and gets
// (true, 0). Any failure yields (false, -1).
func (b *Bootstrap) daemonize(self string, args []string) (bool, int) {
	if _, ok := b.env.LookupEnv(markerDaemon); !ok {
		environ := env.NewLoader(b.env.Environ()...)
		environ.Setenv(markerDaemon, "true")

		pid, err := b.sys.Spawn(self, args, environ.Environ())
		if err != nil {
			b.logger.Error("failed to start daemon", zap.Error(err))
			return false, -1
		}
		b.logger.Debug("started daemon", zap.Int("pid", pid))
		return false, 0
	}

	b.env.Unsetenv(markerDaemon)
	if err := b.sys.Detach(); err != nil {
		b.logger.Error("failed to detach", zap.Error(err))
		return false, -1
	}
	return true, 0
}

// launch runs in the process started by the user (or in its detached copy).
// It writes the pid file and replaces the process with the master.
func (b *Bootstrap) launch(cfg Config, args []string) int {
	self, err := b.sys.Executable()
	if err != nil {
		b.logger.Error("failed to locate executable", zap.Error(err))
		return -1
	}

	if cfg.Daemonize {
		if detached, code := b.daemonize(self, args); !detached {
			return code
		}
	}

	Markers{Role: RoleMaster, EntryScript: cfg.EntryScript, Workers: cfg.Workers}.Encode(b.env)

	if err := WritePidFile(cfg.PidFile, b.sys.Getpid()); err != nil {
		b.logger.Error("failed to write pid file", zap.Error(err))
		return -1
	}

	argv := append([]string{MasterLabel}, args[1:]...)
	err = b.sys.Exec(self, argv, b.env.Environ())

	// still here: the master could not be started
	b.logger.Error("failed to exec master", zap.String("path", self), zap.Error(err))
	if err := RemovePidFile(cfg.PidFile); err != nil {
		b.logger.Warn("failed to clean up", zap.Error(err))
	}
	return -1
}

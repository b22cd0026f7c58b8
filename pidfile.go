package cfadmin

import (
	"io"
	"os"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInvalidKillTarget is returned by Kill when the target is neither a pid
// nor a readable file holding one.
var ErrInvalidKillTarget = errors.New("invalid pid or pid file")

// pidFileReadLimit is the number of bytes of a pid file Kill looks at.
const pidFileReadLimit = 20

// WritePidFile writes pid in decimal, without a trailing newline, to path.
// The file is truncated and written under an exclusive lock.
func WritePidFile(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open pid file %s", path)
	}
	defer f.Close()

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "flock failed(%s)", path)
	}
	defer lock.Unlock()

	if err := f.Truncate(0); err != nil {
		return errors.Wrapf(err, "failed to truncate pid file %s", path)
	}

	if _, err := io.WriteString(f, strconv.Itoa(pid)); err != nil {
		return errors.Wrapf(err, "failed to write pid file %s", path)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync pid file %s", path)
	}
	return nil
}

// RemovePidFile removes path. A missing file is not an error.
func RemovePidFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove pid file %s", path)
	}
	return nil
}

// readPidFile reads the pid stored at path. Only the first bytes are
// looked at, and pids up to 1 are rejected.
func readPidFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidKillTarget, "%s", err)
	}
	defer f.Close()

	buf := make([]byte, pidFileReadLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, errors.Wrapf(err, "failed to read pid file %s", path)
	}

	pid := atoi(string(buf[:n]))
	if pid <= 1 {
		return 0, errors.Wrapf(ErrInvalidKillTarget, "%s holds %q", path, buf[:n])
	}
	return pid, nil
}

// Kill sends QuitSignal to target, which is either a pid greater than 1 or
// the path of a pid file. When the pid comes from a file and the signal was
// delivered, the pid file of cfg is removed. That is the configured path,
// which may differ from target.
func (b *Bootstrap) Kill(target string, cfg Config) error {
	if pid := atoi(target); pid > 1 {
		return b.quit(pid)
	}

	pid, err := readPidFile(target)
	if err != nil {
		return err
	}
	if err := b.quit(pid); err != nil {
		return err
	}
	return RemovePidFile(cfg.PidFile)
}

func (b *Bootstrap) quit(pid int) error {
	b.logger.Debug("sending signal",
		zap.Int("pid", pid),
		zap.String("signal", signame(QuitSignal)),
	)
	if err := b.sys.Kill(pid, QuitSignal); err != nil {
		return errors.Wrapf(err, "failed to send %s to %d", signame(QuitSignal), pid)
	}
	return nil
}

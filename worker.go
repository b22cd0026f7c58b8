package cfadmin

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// runWorker hands the process over to the worker loop. The markers are
// removed first so that nothing the worker starts inherits them.
func (b *Bootstrap) runWorker(ctx context.Context, m Markers) int {
	ClearMarkers(b.env)
	return b.worker(ctx, m.EntryScript)
}

// WaitForShutdown is the default worker loop: it checks that the entry
// script exists and then idles until ctx is done.
func WaitForShutdown(ctx context.Context, logger *zap.Logger, entry string) int {
	if _, err := os.Stat(entry); err != nil {
		logger.Error("entry script is not available", zap.String("entry", entry), zap.Error(err))
		return 1
	}

	logger.Info("worker running", zap.Int("pid", os.Getpid()), zap.String("entry", entry))
	<-ctx.Done()
	logger.Info("worker exiting", zap.Int("pid", os.Getpid()))
	return 0
}

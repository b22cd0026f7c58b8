package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aucfan-yotsuya/cfadmin"
	"github.com/aucfan-yotsuya/cfadmin/internal/log"
)

func main() {
	os.Exit(_main())
}

func _main() int {
	logger := log.New(log.FromEnv())
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	return cfadmin.New(cfadmin.WithLogger(logger)).Run(ctx, os.Args)
}

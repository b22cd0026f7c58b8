package cfadmin

import (
	"io"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"go.uber.org/zap"
)

type valueOption struct {
	name  string
	value interface{}
}

func (o *valueOption) Name() string {
	return o.name
}

func (o *valueOption) Value() interface{} {
	return o.value
}

// WithSystem replaces the operating system primitives. Used by tests.
func WithSystem(s System) Option {
	return &valueOption{name: "system", value: s}
}

// WithEnvironment replaces the process environment the markers are read
// from and written to.
func WithEnvironment(e env.Environment) Option {
	return &valueOption{name: "environment", value: e}
}

func WithLogger(l *zap.Logger) Option {
	return &valueOption{name: "logger", value: l}
}

// WithUsageOutput sets where the usage text is printed (default: stdout).
func WithUsageOutput(w io.Writer) Option {
	return &valueOption{name: "usage_output", value: w}
}

// WithMasterLoop sets the function the master hands over to once all the
// workers are started. The default is MonitorWorkers.
func WithMasterLoop(f MasterLoop) Option {
	return &valueOption{name: "master_loop", value: f}
}

// WithWorkerLoop sets the function a worker hands over to. The default is
// WaitForShutdown.
func WithWorkerLoop(f WorkerLoop) Option {
	return &valueOption{name: "worker_loop", value: f}
}

// options is the command line. Every field is a callback so that flags take
// effect in the order they appear, and nothing after a terminal flag
// (-h, -k) changes the outcome.
type options struct {
	Help    func()             `short:"h" description:"Print cfadmin usage."`
	Daemon  func()             `short:"d" description:"Make cfadmin run in daemon mode."`
	Entry   func(string) error `short:"e" value-name:"FILENAME" description:"Specify the entry script file name."`
	PidFile func(string) error `short:"p" value-name:"FILENAME" description:"Specify the file the master process id is written to."`
	Kill    func(string)       `short:"k" value-name:"PID|FILE" description:"Send SIGQUIT to a pid, or to the pid stored in a pid file."`
	Workers func(string)       `short:"w" value-name:"NUMBER" description:"Spawn the specified number of worker processes (1-255)."`
}

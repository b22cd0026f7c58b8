package cfadmin

import (
	"context"
	"io"
	"syscall"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"go.uber.org/zap"
)

const version = `1.0`

const (
	DefaultEntryScript = "script/main.lua"
	DefaultPidFile     = "cfadmin.pid"

	// MaxPathLength bounds the entry script and pid file paths.
	MaxPathLength = 1 << 10
	MaxWorkers    = 255
)

// Process titles (argv[0]) of the master and of the workers.
const (
	MasterLabel = "cfadmin - Manager Process :"
	WorkerLabel = "cfadmin - Worker Process"
)

// QuitSignal is sent to kill targets and to rolled back workers.
const QuitSignal = syscall.SIGQUIT

// Config is built by ParseArgs and never modified afterwards.
type Config struct {
	EntryScript string
	PidFile     string
	Workers     int
	Daemonize   bool
}

// DefaultConfig returns the configuration used when no flag is given.
func DefaultConfig() Config {
	return Config{
		EntryScript: DefaultEntryScript,
		PidFile:     DefaultPidFile,
		Workers:     1,
	}
}

type Command int

const (
	CommandRun Command = iota
	CommandHelp
	CommandKill
)

// Invocation is the result of parsing the command line.
type Invocation struct {
	Command    Command
	Config     Config
	KillTarget string
}

type Role int

const (
	RoleUnset Role = iota
	RoleMaster
	RoleWorker
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleWorker:
		return "worker"
	default:
		return "unset"
	}
}

// Markers is the typed form of the environment variables that carry the
// role and the configuration across process boundaries.
type Markers struct {
	Role        Role
	EntryScript string
	Workers     int
}

// MasterLoop takes over the master process once every worker is running.
// Its return value is the exit code of the master.
type MasterLoop func(ctx context.Context, pids []int) int

// WorkerLoop takes over a worker process. Its return value is the exit code
// of the worker.
type WorkerLoop func(ctx context.Context, entry string) int

// System is the set of operating system primitives the bootstrap relies on.
type System interface {
	Getpid() int
	Getppid() int
	Executable() (string, error)
	Kill(pid int, sig syscall.Signal) error

	// Exec replaces the current process image. It only returns on error.
	Exec(path string, argv, envv []string) error

	// Spawn starts a new process sharing the standard streams of the
	// current one and returns its pid.
	Spawn(path string, argv, envv []string) (int, error)

	// Detach starts a new session and points the standard streams to the
	// null device.
	Detach() error
}

type Option interface {
	Name() string
	Value() interface{}
}

// Bootstrap resolves the role of the current process and runs it.
type Bootstrap struct {
	sys    System
	env    env.Environment
	logger *zap.Logger
	usage  io.Writer
	master MasterLoop
	worker WorkerLoop
}

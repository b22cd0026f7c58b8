package cfadmin

import (
	"fmt"
	"os"
	"syscall"
)

var niceSigNames = map[syscall.Signal]string{
	syscall.SIGHUP:  "HUP",
	syscall.SIGINT:  "INT",
	syscall.SIGKILL: "KILL",
	syscall.SIGQUIT: "QUIT",
	syscall.SIGTERM: "TERM",
	syscall.SIGUSR1: "USR1",
	syscall.SIGUSR2: "USR2",
}

func signame(s os.Signal) string {
	if ss, ok := s.(syscall.Signal); ok {
		if name, ok := niceSigNames[ss]; ok {
			return name
		}
	}
	return fmt.Sprintf("UNKNOWN (%s)", s)
}

package cfadmin

import (
	"unsafe"

	"github.com/aucfan-yotsuya/cfadmin/internal/env"
	"golang.org/x/sys/unix"
)

// setProcessName sets the name shown in /proc/[pid]/comm, top and ps -o comm.
// The kernel keeps at most 15 characters.
func setProcessName(name string) error {
	if len(name) > 15 {
		name = name[:15]
	}
	b := append([]byte(name), 0)
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&b[0])), 0, 0, 0)
}

// init runs on the main thread, which is the one ps reports on.
func init() {
	switch ResolveRole(env.SystemEnvironment()).Role {
	case RoleMaster:
		_ = setProcessName("cfadmin-master")
	case RoleWorker:
		_ = setProcessName("cfadmin-worker")
	}
}

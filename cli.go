package cfadmin

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

var ErrPathTooLong = errors.Errorf("path exceeds %d bytes", MaxPathLength)

// ParseArgs parses a command line. args[0] is the program name.
//
// A parse error always comes with an Invocation whose Command is
// CommandHelp, except when -k was already seen: the kill still happens.
func ParseArgs(args ...string) (*Invocation, error) {
	inv := &Invocation{Config: DefaultConfig()}
	terminal := func() bool { return inv.Command != CommandRun }

	// go-flags flattens callback errors into its own error type
	var pathErr error
	setPath := func(dst *string) func(string) error {
		return func(s string) error {
			if terminal() {
				return nil
			}
			if len(s) > MaxPathLength {
				pathErr = errors.Wrapf(ErrPathTooLong, "%d bytes", len(s))
				return pathErr
			}
			*dst = s
			return nil
		}
	}

	opts := options{
		Help: func() {
			if !terminal() {
				inv.Command = CommandHelp
			}
		},
		Daemon: func() {
			if !terminal() {
				inv.Config.Daemonize = true
			}
		},
		Entry:   setPath(&inv.Config.EntryScript),
		PidFile: setPath(&inv.Config.PidFile),
		Kill: func(s string) {
			if !terminal() {
				inv.Command = CommandKill
				inv.KillTarget = s
			}
		},
		Workers: func(s string) {
			if !terminal() {
				inv.Config.Workers = workerCount(s)
			}
		},
	}

	if len(args) > 0 {
		args = args[1:]
	}

	p := flags.NewParser(&opts, flags.PassDoubleDash)
	if _, err := p.ParseArgs(splitShortFlags(args)); err != nil {
		if inv.Command == CommandKill {
			return inv, nil
		}
		inv.Command = CommandHelp
		if pathErr != nil {
			return inv, pathErr
		}
		return inv, errors.Wrap(err, "failed to parse arguments")
	}
	return inv, nil
}

// splitShortFlags rewrites args the way getopt reads them: every flag of a
// group gets its own word ("-dw5" becomes "-d", "-w5"), and a flag taking an
// argument always consumes the next word, even one starting with '-'
// ("-w", "-5" becomes "-w-5"). go-flags would read that word as a flag, and
// only accepts an attached argument on the first flag of a group.
func splitShortFlags(args []string) []string {
	takesArg := shortFlagsWithArgument()

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if len(arg) < 2 || arg[0] != '-' || arg[1] == '-' {
			out = append(out, arg)
			continue
		}

		for j := 1; j < len(arg); j++ {
			flag := "-" + arg[j:j+1]
			if !takesArg[arg[j]] {
				out = append(out, flag)
				continue
			}

			switch {
			case j+1 < len(arg):
				out = append(out, flag+arg[j+1:])
			case i+1 < len(args) && strings.HasPrefix(args[i+1], "-"):
				i++
				out = append(out, flag+args[i])
			default:
				out = append(out, flag)
			}
			break
		}
	}
	return out
}

// shortFlagsWithArgument lists the short names of the options whose callback
// takes a value.
func shortFlagsWithArgument() map[byte]bool {
	m := make(map[byte]bool)
	t := reflect.TypeOf(options{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		short := f.Tag.Get("short")
		if short == "" || f.Type.Kind() != reflect.Func || f.Type.NumIn() == 0 {
			continue
		}
		m[short[0]] = true
	}
	return m
}

// workerCount turns the argument of -w into a worker count. Anything
// outside of [1, MaxWorkers] becomes 1.
func workerCount(s string) int {
	n := atoi(s)
	if n <= 0 || n > MaxWorkers {
		return 1
	}
	return n
}

// atoi reads an optionally signed decimal prefix of s, after leading
// whitespace. It returns 0 when there are no digits, and saturates at
// math.MaxInt32.
func atoi(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > math.MaxInt32 {
			n = math.MaxInt32
			break
		}
	}

	if neg {
		return -n
	}
	return n
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func showHelp(w io.Writer) {
	fmt.Fprintf(w, "cfadmin System  : %s/%s(%s)\n\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
	fmt.Fprintf(w, "cfadmin Version : %s\n\n", version)
	fmt.Fprintf(w, "cfadmin Usage: ./cfadmin [options]\n\n")

	t := reflect.TypeOf(options{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag
		if tag == "" {
			continue
		}

		arg := tag.Get("value-name")
		if arg == "" {
			arg = "None"
		}
		fmt.Fprintf(w, "    %-22s %q\n\n",
			fmt.Sprintf("-%s <%s>", tag.Get("short"), arg),
			tag.Get("description"),
		)
	}
}

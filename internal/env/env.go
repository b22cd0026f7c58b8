// Package env abstracts the process environment so that the bootstrap can
// read and write its markers either on the real environment or on an
// in-memory copy.
package env

import (
	"os"
	"strings"
)

// Environment is the set of operations performed on a process environment.
type Environment interface {
	Getenv(string) string
	LookupEnv(string) (string, bool)
	Setenv(string, string)
	Unsetenv(string)
	Environ() []string
}

type sysenv struct{}

// SystemEnvironment returns an Environment backed by the environment of the
// current process.
func SystemEnvironment() Environment {
	return &sysenv{}
}

func (e *sysenv) Getenv(k string) string {
	return os.Getenv(k)
}

func (e *sysenv) LookupEnv(k string) (string, bool) {
	return os.LookupEnv(k)
}

func (e *sysenv) Setenv(k, v string) {
	os.Setenv(k, v)
}

func (e *sysenv) Unsetenv(k string) {
	os.Unsetenv(k)
}

func (e *sysenv) Environ() []string {
	return os.Environ()
}

// Loader is an in-memory Environment. Keys keep the order in which they
// were first set.
type Loader struct {
	keys   []string
	values map[string]string
}

// NewLoader creates a Loader from a list of KEY=VALUE pairs. When no pairs
// are given, the environment of the current process is copied.
func NewLoader(environ ...string) *Loader {
	if len(environ) == 0 {
		environ = os.Environ()
	}

	l := &Loader{
		keys:   make([]string, 0, len(environ)),
		values: make(map[string]string, len(environ)),
	}
	for _, v := range environ {
		i := strings.IndexByte(v, '=')
		if i <= 0 {
			continue
		}
		l.Setenv(v[:i], v[i+1:])
	}
	return l
}

func (l *Loader) Getenv(k string) string {
	return l.values[k]
}

func (l *Loader) LookupEnv(k string) (string, bool) {
	v, ok := l.values[k]
	return v, ok
}

func (l *Loader) Setenv(k, v string) {
	if _, ok := l.values[k]; !ok {
		l.keys = append(l.keys, k)
	}
	l.values[k] = v
}

func (l *Loader) Unsetenv(k string) {
	if _, ok := l.values[k]; !ok {
		return
	}
	delete(l.values, k)
	for i, key := range l.keys {
		if key == k {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
}

// Environ returns the KEY=VALUE pairs in insertion order.
func (l *Loader) Environ() []string {
	environ := make([]string, 0, len(l.keys))
	for _, k := range l.keys {
		environ = append(environ, k+`=`+l.values[k])
	}
	return environ
}

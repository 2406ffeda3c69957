// Package runtime abstracts the execution environment of a process
package runtime

import (
	"os"
	"strings"
)

// Environment abstracts the execution environment of a process.
// It allows introduction mocks for testing.
type Environment interface {
	// Args returns the arguments passed to the process, including the program name
	Args() []string
	// Vars returns the environment variables of the process
	Vars() map[string]string
	// Signal returns an interface for handling signals
	Signal() Signals
}

// environment keeps the state of the execution environment
type environment struct {
	args    []string
	vars    map[string]string
	signals Signals
}

// DefaultEnvironment returns the default execution environment
func DefaultEnvironment() Environment {
	return environment{
		args:    os.Args,
		vars:    parseVars(os.Environ()),
		signals: DefaultSignals(),
	}
}

// parseVars converts a list of "key=value" entries into a map
func parseVars(environ []string) map[string]string {
	vars := map[string]string{}
	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		vars[key] = value
	}

	return vars
}

func (e environment) Args() []string {
	return e.args
}

func (e environment) Vars() map[string]string {
	return e.vars
}

func (e environment) Signal() Signals {
	return e.signals
}

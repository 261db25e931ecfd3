package featureflags

import (
	"os"
	"strings"
)

// Known flags.
const (
	// ReadOnly rejects every mutating API request, e.g. during a backup
	// or restore window.
	ReadOnly = "read_only"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	return parse(os.Getenv(envName(name)))
}

// Checker reports whether a named flag is on. Enabled is the production
// checker; tests substitute a fixed map with Static.
type Checker func(name string) bool

// Static returns a Checker backed by a fixed set of flags.
func Static(flags map[string]bool) Checker {
	return func(name string) bool { return flags[name] }
}

func envName(name string) string {
	return "FLAG_" + strings.ToUpper(name)
}

func parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

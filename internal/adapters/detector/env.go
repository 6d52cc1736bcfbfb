// Package detector inspects the process environment to decide how interactive
// the current session is.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Mode describes the kind of session press runs in.
type Mode int

const (
	// ModeInteractive is a developer terminal: colours, browser launch.
	ModeInteractive Mode = iota
	// ModeCI is a pipe, a log file or a CI runner.
	ModeCI
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	if m == ModeCI {
		return "ci"
	}
	return "interactive"
}

// Detect reports ModeCI when stdout is not a terminal or the CI variable is set.
func Detect() Mode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) Mode {
	if !isTTY || ci == "true" || ci == "1" {
		return ModeCI
	}
	return ModeInteractive
}

// Resolve applies a user override to the detected mode. Unknown values keep
// the detected mode.
func Resolve(detected Mode, flag string) Mode {
	switch flag {
	case "interactive", "tty":
		return ModeInteractive
	case "ci", "linear":
		return ModeCI
	default:
		return detected
	}
}

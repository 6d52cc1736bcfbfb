// Package output builds the termenv outputs shared by the logger and the task renderer.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the colour profile of an Output.
type Mode int

const (
	// Auto asks the environment what the terminal supports.
	Auto Mode = iota
	// Basic limits colours to the 16 ANSI colours that CI log viewers render.
	Basic
)

// Profile returns the colour profile for mode. NO_COLOR always yields plain text.
func Profile(mode Mode) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case mode == Basic:
		return termenv.ANSI
	default:
		return termenv.EnvColorProfile()
	}
}

// New creates an Output for w. A nil w writes to stderr.
func New(w io.Writer, mode Mode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(mode)), termenv.WithTTY(true))
}

// Paint renders s in c, downsampled to the profile of out.
func Paint(out *termenv.Output, s string, c lipgloss.Color) string {
	return out.String(s).Foreground(out.Color(string(c))).String()
}

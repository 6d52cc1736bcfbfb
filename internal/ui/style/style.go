// Package style holds the palette and marks of press's terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	// Component tags log lines, as in "[Hugo]".
	Component = lipgloss.Color("#3B82F6")
	// Task highlights task names in lifecycle lines.
	Task    = lipgloss.Color("#06B6D4")
	Timing  = lipgloss.Color("#C026D3")
	Muted   = lipgloss.Color("#667085")
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
)

// Marks prefixed to untagged warnings and errors.
const (
	FailureMark = "✗"
	CautionMark = "!"
)

// Bell is the terminal alert character.
const Bell = "\a"

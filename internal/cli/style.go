// Package cli implements the cyclecoach operator command line: one-shot
// batch commands for generating a package, validating its distribution,
// and running the pre-delivery checklist. It is a plain Cobra tree, not
// an interactive shell — every command reads flags, does one thing, and
// exits with a status code a delivery script can branch on.
package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")

	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// colorEnabled gates every Render call below on whether stdout is an
// interactive terminal. Checklist output gets piped into delivery
// scripts and log files far more often than read directly, so colored
// output is opt-in to what's actually attached rather than assumed.
var colorEnabled = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}()

func render(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

func checkMark(ok bool) string {
	if ok {
		return render(styleGreen, "[PASS]")
	}
	return render(styleRed, "[FAIL]")
}

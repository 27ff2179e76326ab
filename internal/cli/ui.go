package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
	warningStyle = color.New(color.FgYellow)
	mutedStyle   = color.New(color.Faint)
	pathStyle    = color.New(color.FgCyan)
)

// startSpinner shows message next to a spinner on w while slow work runs.
// The returned function stops it. Nothing is drawn when w is not a
// terminal.
func startSpinner(w io.Writer, message string) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}

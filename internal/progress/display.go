package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display animates a spinner during a scan on a TTY and falls back to a
// plain message everywhere else.
type Display struct {
	capabilities TerminalCapabilities
	spinner      *spinner.Spinner
	symbols      Symbols
}

// New creates a display for the given terminal capabilities.
func New(caps TerminalCapabilities) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins the spinner with the given message.
func (d *Display) Start(msg string) {
	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		// Stderr keeps the spinner out of piped report output.
		d.spinner.Writer = os.Stderr
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// Stop halts the spinner without printing a status line.
func (d *Display) Stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// Done stops the spinner and prints a completion line.
func (d *Display) Done(msg string) {
	d.Stop()
	fmt.Fprintf(os.Stderr, "%s %s\n", d.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints a failure line.
func (d *Display) Fail(msg string) {
	d.Stop()
	fmt.Fprintf(os.Stderr, "%s %s\n", d.symbols.Failure, msg)
}

// Package report renders findings for the terminal and decides the run's
// exit status. Rendering never reorders findings; callers hand in the sorted
// slice the engine produced.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/moqui-tools/moquilint/internal/finding"
)

// Renderer writes finding lines and the run summary. The zero value renders
// plain text; set Color for severity-colored output.
type Renderer struct {
	Color   bool
	Verbose bool // include suggested fixes under their finding
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// Render writes one line per finding, `severity: message (path:line)`, with
// a suggested fix on a dimmed follow-up line when Verbose is set.
func (r Renderer) Render(w io.Writer, findings []finding.Finding) error {
	for _, f := range findings {
		if _, err := io.WriteString(w, r.line(f)+"\n"); err != nil {
			return err
		}
		if r.Verbose && f.Fix != "" {
			fix := "  fix: " + f.Fix
			if r.Color {
				fix = dimColor.Sprint(fix)
			}
			if _, err := io.WriteString(w, fix+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r Renderer) line(f finding.Finding) string {
	if !r.Color {
		return f.String()
	}
	sev := f.Severity.String()
	switch f.Severity {
	case finding.SeverityError:
		sev = errorColor.Sprint(sev)
	case finding.SeverityWarning:
		sev = warningColor.Sprint(sev)
	case finding.SeverityInfo:
		sev = infoColor.Sprint(sev)
	}
	return fmt.Sprintf("%s: %s %s", sev, f.Message, dimColor.Sprintf("(%s)", f.Location))
}

// Summary returns the one-line tally, e.g. "2 errors, 1 warning in 14 files".
func Summary(findings []finding.Finding, files int) string {
	errors, warnings, infos := finding.Counts(findings)
	if errors+warnings+infos == 0 {
		return fmt.Sprintf("no issues in %s", plural(files, "file"))
	}

	var parts []string
	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}
	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), plural(files, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Failed reports whether any finding is at or above the fail-on threshold.
// Severities order error < warning < info, so failOn=SeverityWarning fails
// the run on errors and warnings but not on advisory findings.
func Failed(findings []finding.Finding, failOn finding.Severity) bool {
	for _, f := range findings {
		if f.Severity <= failOn {
			return true
		}
	}
	return false
}

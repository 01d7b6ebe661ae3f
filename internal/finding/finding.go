// Package finding defines the value objects produced by the analyzer: one
// Finding per detected issue, with severity, rule identifier, and source
// location. Findings are pure values; two runs over identical input must
// produce identical finding sets.
package finding

import (
	"fmt"
	"sort"
)

// Severity classifies how serious a finding is. The zero value is
// SeverityError so that a forgotten severity fails loudly rather than
// disappearing into info noise.
type Severity int

const (
	// SeverityError indicates a provable structural or reference problem.
	SeverityError Severity = iota
	// SeverityWarning indicates a convention violation or heuristic match.
	SeverityWarning
	// SeverityInfo indicates an advisory suggestion.
	SeverityInfo
)

// String returns the lowercase name used in reports and rule-set files.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a report/config token back into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q (expected error, warning, or info)", s)
	}
}

// Location identifies a position in a source file. Line and Column are
// 1-based; a zero Line means the location is file-scoped.
type Location struct {
	Path   string
	Line   int
	Column int
}

// String renders the location as path:line, omitting the line when unknown.
func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// Finding is one reported issue. It has no identity beyond its content.
type Finding struct {
	Severity Severity
	Rule     string   // stable rule identifier, e.g. "missing-primary-key"
	Message  string   // human-readable description
	Location Location // where the issue was detected
	Fix      string   // optional suggested fix, empty when none applies
}

// String renders the finding in the report line format.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s (%s)", f.Severity, f.Message, f.Location)
}

// Less defines the presentation order: file path, then line, then rule
// identifier, then severity (errors before warnings before info).
func Less(a, b Finding) bool {
	if a.Location.Path != b.Location.Path {
		return a.Location.Path < b.Location.Path
	}
	if a.Location.Line != b.Location.Line {
		return a.Location.Line < b.Location.Line
	}
	if a.Rule != b.Rule {
		return a.Rule < b.Rule
	}
	if a.Severity != b.Severity {
		return a.Severity < b.Severity
	}
	return a.Message < b.Message
}

// Sort orders findings in place into presentation order.
func Sort(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return Less(findings[i], findings[j])
	})
}

// Dedup removes adjacent duplicates from a sorted slice. Identical findings
// can legitimately arise when an index-phase error is re-surfaced through a
// rule; the report shows each distinct finding once.
func Dedup(findings []Finding) []Finding {
	if len(findings) < 2 {
		return findings
	}
	out := findings[:1]
	for _, f := range findings[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any finding is error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts tallies findings per severity in error, warning, info order.
func Counts(findings []Finding) (errors, warnings, infos int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}
	return errors, warnings, infos
}

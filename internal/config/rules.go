package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moqui-tools/moquilint/internal/rules"
)

// ValidationError represents a rule-set file validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: rule '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ruleSetFile is the on-disk shape of .moquilint.yaml.
type ruleSetFile struct {
	Rules map[string]string `yaml:"rules"`
}

// LoadRuleOverrides reads a rule-set file and returns the severity
// overrides. A missing file is not an error unless required is set; the
// default rule-set path is probed silently while an explicitly configured
// one must exist.
func LoadRuleOverrides(path string, required bool) (rules.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	// Empty file is valid - no overrides
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var rf ruleSetFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		line, column := extractLineColumn(err.Error())
		return nil, &ValidationError{
			FilePath: path,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	overrides := rules.Overrides(rf.Rules)
	if err := overrides.Validate(); err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	return overrides, nil
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

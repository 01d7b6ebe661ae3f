package errors

import "fmt"

// NoDefinitionFiles creates an error for a scan that matched nothing.
func NoDefinitionFiles() *CLIError {
	return NewPrerequisiteError(
		"no definition files found under the given paths",
		"point at a directory containing *.xml entity or service definitions",
		"use --extensions to widen the file filter",
	)
}

// ConfigFileNotFound creates an error for a missing --config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"check the path passed to --config",
		"run without --config to use the defaults",
	)
}

// RulesFileNotFound creates an error for a missing rule-set file.
func RulesFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("rule-set file not found: %s", path),
		"check the path passed to --rules",
		"remove the rules setting to run with default severities",
	)
}

// InvalidFlagCombination creates an error for conflicting flags.
func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination %s: %s", flags, reason),
	)
}

// InvalidSeverity creates an error for a bad --fail-on value.
func InvalidSeverity(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid severity %q", value),
		`use one of "error", "warning", or "info"`,
	)
}

// InvalidGenerateKind creates an error for a bad --kind value.
func InvalidGenerateKind(kind string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown kind %q", kind),
		"moquilint generate --kind <entity|service> --noun <Name>",
		`use "entity" or "service"`,
	)
}

// MissingGenerateNoun creates an error for generate without --noun.
func MissingGenerateNoun() *CLIError {
	return NewArgumentErrorWithUsage(
		"generate requires a --noun",
		"moquilint generate --kind <entity|service> --noun <Name>",
		"pass the PascalCase entity or service noun, e.g. --noun Product",
	)
}

// MissingGenerateVerb creates an error for a service skeleton without --verb.
func MissingGenerateVerb() *CLIError {
	return NewArgumentErrorWithUsage(
		"service skeletons require a --verb",
		"moquilint generate --kind service --verb <verb> --noun <Name>",
		"pass the lowercase service verb, e.g. --verb create",
	)
}

// FileNotWritable creates an error for a fmt --write failure.
func FileNotWritable(path string, err error) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write %s: %v", path, err),
		"check file permissions and free disk space",
	)
}

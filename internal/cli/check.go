package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moqui-tools/moquilint/internal/cli/shared"
	"github.com/moqui-tools/moquilint/internal/config"
	"github.com/moqui-tools/moquilint/internal/errors"
	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/progress"
	"github.com/moqui-tools/moquilint/internal/project"
	"github.com/moqui-tools/moquilint/internal/report"
)

var checkCmd = &cobra.Command{
	Use:     "check [path...]",
	Aliases: []string{"lint"},
	Short:   "Report findings for definition files",
	Long: `Walk the given paths, parse every definition file, build the project
index, and run the rule set. Findings print one per line as
severity: message (path:line). The formatter never runs in this mode.`,
	Example: `  # Check the current directory
  moquilint check

  # Check a component, failing CI on warnings too
  moquilint check --fail-on warning ./components/my-component

  # Use a project rule-set file
  moquilint check --rules .moquilint.yaml ./entity`,
	RunE: runCheck,
}

func init() {
	checkCmd.GroupID = shared.GroupAnalysis
	checkCmd.Flags().String("fail-on", "", "Lowest severity that fails the run (error|warning|info)")
	checkCmd.Flags().String("rules", "", "Path to a rule-set file with severity overrides")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	failOn := cfg.FailOnSeverity()
	if cmd.Flags().Changed("fail-on") {
		value, _ := cmd.Flags().GetString("fail-on")
		sev, err := finding.ParseSeverity(value)
		if err != nil {
			errors.FprintError(cmd.ErrOrStderr(), errors.InvalidSeverity(value))
			return shared.NewExitError(shared.ExitInvalidArguments)
		}
		failOn = sev
	}

	// The default rule-set path is probed silently; an explicit --rules
	// file must exist.
	rulesPath, rulesRequired := cfg.RulesFile, false
	if cmd.Flags().Changed("rules") {
		rulesPath, _ = cmd.Flags().GetString("rules")
		rulesRequired = true
		if _, statErr := os.Stat(rulesPath); os.IsNotExist(statErr) {
			errors.FprintError(cmd.ErrOrStderr(), errors.RulesFileNotFound(rulesPath))
			return shared.NewExitError(shared.ExitInvalidArguments)
		}
	}
	overrides, err := config.LoadRuleOverrides(rulesPath, rulesRequired)
	if err != nil {
		errors.FprintError(cmd.ErrOrStderr(), errors.Wrap(err, errors.Configuration,
			"fix the rule-set file or remove it to run with defaults"))
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	display := progress.New(progress.DetectTerminalCapabilities())
	display.Start("scanning definitions")
	res, err := project.Run(cmd.Context(), args, project.Options{
		Extensions: cfg.Extensions,
		Jobs:       cfg.Jobs,
		Overrides:  overrides,
	})
	display.Stop()
	if err != nil {
		errors.FprintError(cmd.ErrOrStderr(), errors.Wrap(err, errors.Prerequisite,
			"check the paths passed on the command line"))
		return shared.NewExitError(shared.ExitRunError)
	}

	out := cmd.OutOrStdout()
	renderer := report.Renderer{Color: !color.NoColor, Verbose: verbose(cmd)}
	if err := renderer.Render(out, res.Findings); err != nil {
		return err
	}
	if len(res.Findings) > 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, report.Summary(res.Findings, len(res.Files)))

	if report.Failed(res.Findings, failOn) {
		return shared.NewExitError(shared.ExitFindings)
	}
	return nil
}

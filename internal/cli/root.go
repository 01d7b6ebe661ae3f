// Package cli provides the Cobra-based commands for the moquilint tool:
// analysis (check, graph), formatting (fmt), and generation (generate) of
// Moqui XML entity and service definitions.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moqui-tools/moquilint/internal/cli/shared"
	"github.com/moqui-tools/moquilint/internal/config"
	"github.com/moqui-tools/moquilint/internal/errors"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupAnalysis      = shared.GroupAnalysis
	GroupFormatting    = shared.GroupFormatting
	GroupGeneration    = shared.GroupGeneration
	GroupConfiguration = shared.GroupConfiguration
)

var rootCmd = &cobra.Command{
	Use:   "moquilint",
	Short: "Static analyzer and canonical formatter for Moqui XML definitions",
	Long: `moquilint checks Moqui entity and service definition XML for structural,
naming, and security problems, and rewrites files into a canonical style.`,
	Example: `  # Report findings for a component directory
  moquilint check ./components/my-component

  # Rewrite definitions into canonical form
  moquilint fmt --write ./entity

  # Verify formatting in CI without writing
  moquilint fmt --check ./entity

  # Generate a service skeleton
  moquilint generate --kind service --verb create --noun Product

  # Render the entity relationship graph
  moquilint graph ./entity`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupAnalysis, Title: "Analysis:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupFormatting, Title: "Formatting:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupGeneration, Title: "Generation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	// Assign built-in help and completion to configuration group
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (JSON)")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Number of parallel workers (0 = one per CPU)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// loadConfig resolves the effective configuration for a command invocation,
// applying the persistent flag overrides on top of the file/env layers.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			errors.FprintError(cmd.ErrOrStderr(), errors.ConfigFileNotFound(path))
			return nil, shared.NewExitError(shared.ExitInvalidArguments)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		cliErr := errors.WrapWithMessage(err, errors.Configuration, "loading configuration",
			"check the config file syntax and field values")
		errors.FprintError(cmd.ErrOrStderr(), cliErr)
		return nil, shared.NewExitError(shared.ExitInvalidArguments)
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs, _ = cmd.Flags().GetInt("jobs")
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	return cfg, nil
}

func verbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

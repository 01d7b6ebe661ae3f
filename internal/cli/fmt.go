package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moqui-tools/moquilint/internal/cli/shared"
	"github.com/moqui-tools/moquilint/internal/errors"
	"github.com/moqui-tools/moquilint/internal/format"
	"github.com/moqui-tools/moquilint/internal/project"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [path...]",
	Short: "Rewrite definition files into canonical form",
	Long: `Parse definition files and render them in the canonical style: XML
declaration, four-space indentation, attribute wrapping past the configured
width, self-closing childless elements. Attribute and child order never
change. Without --write the canonical text prints to stdout. Rules never
run in this mode.`,
	Example: `  # Print the canonical form of one file
  moquilint fmt entity/ProductEntities.xml

  # Rewrite a directory in place, keeping .bak backups
  moquilint fmt --write --backup ./entity

  # Fail CI when files are not canonical
  moquilint fmt --check ./entity`,
	RunE: runFmt,
}

func init() {
	fmtCmd.GroupID = shared.GroupFormatting
	fmtCmd.Flags().BoolP("write", "w", false, "Rewrite files in place instead of printing")
	fmtCmd.Flags().Bool("backup", false, "Write a backup before rewriting (requires --write)")
	fmtCmd.Flags().Bool("check", false, "Exit non-zero when any file is not canonical")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	backup, _ := cmd.Flags().GetBool("backup")
	check, _ := cmd.Flags().GetBool("check")

	if write && check {
		errors.FprintError(cmd.ErrOrStderr(),
			errors.InvalidFlagCombination("--write --check", "pick one mode"))
		return shared.NewExitError(shared.ExitInvalidArguments)
	}
	if backup && !write {
		errors.FprintError(cmd.ErrOrStderr(),
			errors.InvalidFlagCombination("--backup", "backups only apply with --write"))
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := project.DiscoverFiles(args, cfg.Extensions)
	if err != nil {
		errors.FprintError(cmd.ErrOrStderr(), errors.Wrap(err, errors.Prerequisite,
			"check the paths passed on the command line"))
		return shared.NewExitError(shared.ExitRunError)
	}
	if len(files) == 0 {
		errors.FprintError(cmd.ErrOrStderr(), errors.NoDefinitionFiles())
		return shared.NewExitError(shared.ExitRunError)
	}

	opts := format.Options{Indent: cfg.Indent, MaxWidth: cfg.MaxWidth}
	out := cmd.OutOrStdout()

	var notCanonical, failed bool
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed = true
			continue
		}
		doc, err := xmldom.Parse(path, data)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			failed = true
			continue
		}

		switch {
		case check:
			if format.Changed(data, doc, opts) {
				fmt.Fprintf(out, "not canonical: %s\n", path)
				notCanonical = true
			} else if verbose(cmd) {
				fmt.Fprintf(out, "canonical: %s\n", path)
			}
		case write:
			status, err := format.Rewrite(doc, data, opts, backup, cfg.BackupSuffix)
			if err != nil {
				errors.FprintError(cmd.ErrOrStderr(), errors.FileNotWritable(path, err))
				failed = true
				continue
			}
			if status == format.StatusRewritten {
				fmt.Fprintf(out, "formatted: %s\n", path)
			} else if verbose(cmd) {
				fmt.Fprintf(out, "unchanged: %s\n", path)
			}
		default:
			fmt.Fprint(out, format.Canonical(doc, opts))
		}
	}

	if failed {
		return shared.NewExitError(shared.ExitRunError)
	}
	if notCanonical {
		return shared.NewExitError(shared.ExitFindings)
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moqui-tools/moquilint/internal/cli/shared"
	"github.com/moqui-tools/moquilint/internal/errors"
	"github.com/moqui-tools/moquilint/internal/format"
	"github.com/moqui-tools/moquilint/internal/skeleton"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate an entity or service definition skeleton",
	Long: `Build a minimally valid definition document from the given options and
print it in canonical form. Service skeletons follow the crud patterns
(create, update, delete, get, find); unrecognized verbs get a custom body.`,
	Example: `  # Entity skeleton with audit and localization fields
  moquilint generate --kind entity --noun Product --package com.acme.catalog --audit --localize

  # Create-service skeleton
  moquilint generate --kind service --verb create --noun Product

  # Write the skeleton to a file
  moquilint generate --kind service --verb find --noun Product --output service/ProductServices.xml`,
	RunE: runGenerate,
}

func init() {
	generateCmd.GroupID = shared.GroupGeneration
	generateCmd.Flags().String("kind", "entity", "Definition kind (entity|service)")
	generateCmd.Flags().String("verb", "", "Service verb, lowercase (create, update, ...)")
	generateCmd.Flags().String("noun", "", "Entity or service noun, PascalCase")
	generateCmd.Flags().String("package", "", "Entity package (default com.example)")
	generateCmd.Flags().String("entity", "", "Backing entity qualified name for service bodies")
	generateCmd.Flags().String("pattern", "", "Service template (create|update|delete|get|find|custom)")
	generateCmd.Flags().Bool("audit", false, "Add audit logging to non-key entity fields")
	generateCmd.Flags().Bool("localize", false, "Add localization to text entity fields")
	generateCmd.Flags().StringP("output", "o", "", "Write the skeleton to a file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	kindFlag, _ := cmd.Flags().GetString("kind")
	var kind xmldom.Kind
	switch kindFlag {
	case "entity":
		kind = xmldom.KindEntity
	case "service":
		kind = xmldom.KindService
	default:
		errors.FprintError(cmd.ErrOrStderr(), errors.InvalidGenerateKind(kindFlag))
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	noun, _ := cmd.Flags().GetString("noun")
	if noun == "" {
		errors.FprintError(cmd.ErrOrStderr(), errors.MissingGenerateNoun())
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	verb, _ := cmd.Flags().GetString("verb")
	if kind == xmldom.KindService && verb == "" {
		errors.FprintError(cmd.ErrOrStderr(), errors.MissingGenerateVerb())
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	pkg, _ := cmd.Flags().GetString("package")
	entity, _ := cmd.Flags().GetString("entity")
	pattern, _ := cmd.Flags().GetString("pattern")
	audit, _ := cmd.Flags().GetBool("audit")
	localize, _ := cmd.Flags().GetBool("localize")

	doc, err := skeleton.Build(kind, skeleton.Options{
		Verb:     verb,
		Noun:     noun,
		Package:  pkg,
		Entity:   entity,
		Pattern:  skeleton.Pattern(pattern),
		Audit:    audit,
		Localize: localize,
	})
	if err != nil {
		errors.FprintError(cmd.ErrOrStderr(), errors.Wrap(err, errors.Argument,
			"see 'moquilint generate --help' for the option set"))
		return shared.NewExitError(shared.ExitInvalidArguments)
	}

	rendered := format.Canonical(doc, format.Options{Indent: cfg.Indent, MaxWidth: cfg.MaxWidth})

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
			errors.FprintError(cmd.ErrOrStderr(), errors.FileNotWritable(output, err))
			return shared.NewExitError(shared.ExitRunError)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moqui-tools/moquilint/internal/cli/shared"
	"github.com/moqui-tools/moquilint/internal/errors"
	"github.com/moqui-tools/moquilint/internal/project"
	"github.com/moqui-tools/moquilint/internal/rules"
)

var graphCmd = &cobra.Command{
	Use:   "graph [path...]",
	Short: "Render the entity relationship graph",
	Long: `Build the project index for the given paths and render the relationship
graph between entities. Files without an entities or services root are
skipped. Rules do not run; dangling relationships simply have no edge.`,
	Example: `  # ASCII tree of entity relationships
  moquilint graph ./entity

  # DOT output for Graphviz
  moquilint graph --dot ./entity | dot -Tsvg -o entities.svg`,
	RunE: runGraph,
}

func init() {
	graphCmd.GroupID = shared.GroupAnalysis
	graphCmd.Flags().Bool("dot", false, "Emit Graphviz DOT instead of an ASCII tree")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// An empty registry: the graph only needs the resolved index.
	res, err := project.Run(cmd.Context(), args, project.Options{
		Extensions:      cfg.Extensions,
		Jobs:            cfg.Jobs,
		Registry:        rules.NewRegistry(),
		DefinitionsOnly: true,
	})
	if err != nil {
		errors.FprintError(cmd.ErrOrStderr(), errors.Wrap(err, errors.Prerequisite,
			"check the paths passed on the command line"))
		return shared.NewExitError(shared.ExitRunError)
	}

	graph := res.Index.Graph()
	out := cmd.OutOrStdout()

	if dot, _ := cmd.Flags().GetBool("dot"); dot {
		fmt.Fprint(out, graph.RenderDOT())
		return nil
	}

	fmt.Fprint(out, graph.RenderASCII())

	if cycle := graph.DetectCycle(); len(cycle) > 0 {
		names := make([]string, len(cycle))
		for i, q := range cycle {
			names[i] = string(q)
		}
		fmt.Fprintf(out, "\nrequired-relationship cycle: %s\n", strings.Join(names, " -> "))
		return shared.NewExitError(shared.ExitFindings)
	}
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/reasongraph/pkg/graph"
)

// seedCommand prints the built-in graph as JSON, a starting point for
// custom graphs.
func (c *CLI) seedCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the built-in seed graph as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return graph.WriteGraph(graph.Seed(), c.Out)
			}
			if err := graph.WriteGraphFile(graph.Seed(), output); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote seed graph")
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

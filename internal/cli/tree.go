package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fpminer/pkg/pipeline"
)

// treeCommand creates the tree command, which renders the FP-tree of a
// dataset for debugging.
func (c *CLI) treeCommand() *cobra.Command {
	opts := pipeline.TreeOptions{
		DatasetOptions: pipeline.DatasetOptions{Format: pipeline.DefaultFormat},
		MinSupport:     pipeline.DefaultMinSupport,
	}
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Render the FP-tree of a dataset",
		Long: `Render the FP-tree that mining starts from as SVG or Graphviz DOT.

Nodes show an item and its count. The output format follows the extension of
--output unless --format-out is given.`,
		Example: `  # Render the tree of a small dataset
  fpminer tree groceries.csv -s 0.2 -o tree.svg

  # DOT with header sibling links, limited to 200 nodes
  fpminer tree groceries.csv --siblings --max-nodes 200 -o tree.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format-out") {
				opts.Output = outputFormat(output)
			}
			in, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Building tree...")
			spinner.Start()
			res, err := runner.Tree(cmd.Context(), in, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := out.Write(res.Data); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			if output != "" && output != "-" {
				printSuccess("Rendered %s tree", strings.ToUpper(res.Output))
				printFile(output)
				printStats(0, res.Nodes, res.CacheHit)
				printDetail("%d items at min count %d", res.Items, res.MinCount)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	f.StringVar(&opts.Output, "format-out", pipeline.OutputSVG, "output format: svg or dot")
	f.Float64VarP(&opts.MinSupport, "min-support", "s", opts.MinSupport, "minimum relative support of tree items")
	f.BoolVar(&opts.Siblings, "siblings", false, "draw header sibling links")
	f.IntVar(&opts.MaxNodes, "max-nodes", 0, "stop drawing after this many nodes (0 for all)")
	f.StringVar(&opts.Format, "format", opts.Format, "input format: csv or basket")
	f.StringVar(&opts.Delimiter, "delimiter", "", "field delimiter (default \",\")")
	f.StringVar(&opts.WeightColumn, "weight-column", "", "CSV column holding the row multiplicity")
	f.StringVar(&opts.Positive, "positive", "", "positive value for every column")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached trees")

	return cmd
}

// outputFormat infers the tree output format from a file name.
func outputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return pipeline.OutputDOT
	default:
		return pipeline.OutputSVG
	}
}

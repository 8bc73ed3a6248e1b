package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
	errs "github.com/matzehuels/fpminer/pkg/errors"
	"github.com/matzehuels/fpminer/pkg/pipeline"
	"github.com/matzehuels/fpminer/pkg/report"
)

// mineFlags holds the flag values of the mine command. Only flags the user
// set override the configuration file.
type mineFlags struct {
	config      string
	output      string
	top         int
	noCache     bool
	report      bool
	interactive bool
	opts        pipeline.Options
}

// mineCommand creates the mine command for mining frequent itemsets.
func (c *CLI) mineCommand() *cobra.Command {
	flags := mineFlags{opts: pipeline.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "mine [file]",
		Short: "Mine frequent itemsets from a dataset",
		Long: `Mine frequent itemsets from a CSV table or a basket file with FP-Growth.

CSV input has a header row and one transaction per row. Every column with one
positive value becomes an item. Basket input lists the items of a transaction
on each line. Use "-" to read from standard input.

With --find-min the support threshold is lowered until at least --min-itemsets
itemsets are found or --max-retries attempts were made.`,
		Example: `  # Mine with a 5% support threshold
  fpminer mine groceries.csv --min-support 0.05

  # Only itemsets that contain milk, lowering support until 20 are found
  fpminer mine groceries.csv --must-contain '^milk$' --find-min --min-itemsets 20

  # Basket input, JSON output
  fpminer mine baskets.txt --format basket -o itemsets.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			in, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.runMine(cmd.Context(), cmd.OutOrStdout(), in, opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "read options from a TOML, YAML or JSON file")
	f.StringVarP(&flags.output, "output", "o", "", "write the result as JSON to a file (\"-\" for stdout)")
	f.IntVar(&flags.top, "top", defaultTop, "number of itemsets to print (0 for all)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable result caching")
	f.BoolVar(&flags.report, "report", false, "store a run report")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "browse the itemsets interactively")

	f.StringVar(&flags.opts.Format, "format", flags.opts.Format, "input format: csv or basket")
	f.StringVar(&flags.opts.Delimiter, "delimiter", "", "field delimiter (default \",\")")
	f.StringVar(&flags.opts.WeightColumn, "weight-column", "", "CSV column holding the row multiplicity")
	f.StringVar(&flags.opts.Positive, "positive", "", "positive value for every column")

	f.Float64VarP(&flags.opts.MinSupport, "min-support", "s", flags.opts.MinSupport, "minimum relative support")
	f.IntVar(&flags.opts.MaxItems, "max-items", flags.opts.MaxItems, "maximum itemset length (-1 for unbounded)")
	f.StringVarP(&flags.opts.MustContain, "must-contain", "m", "", "only keep itemsets with an item matching this regex")
	f.BoolVar(&flags.opts.FindMinNumberOfItemsets, "find-min", false, "lower support until --min-itemsets are found")
	f.IntVar(&flags.opts.MinNumberOfItemsets, "min-itemsets", flags.opts.MinNumberOfItemsets, "target number of itemsets for --find-min")
	f.IntVar(&flags.opts.MaxNumberOfRetries, "max-retries", flags.opts.MaxNumberOfRetries, "maximum attempts for --find-min")
	f.StringVar(&flags.opts.Projection, "projection", flags.opts.Projection, "conditional tree strategy: inplace or clone")
	f.BoolVar(&flags.opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// optionFlags maps flag names to the setter that copies the flag value onto
// options read from a configuration file.
var optionFlags = map[string]func(dst, src *pipeline.Options){
	"format":        func(d, s *pipeline.Options) { d.Format = s.Format },
	"delimiter":     func(d, s *pipeline.Options) { d.Delimiter = s.Delimiter },
	"weight-column": func(d, s *pipeline.Options) { d.WeightColumn = s.WeightColumn },
	"positive":      func(d, s *pipeline.Options) { d.Positive = s.Positive },
	"min-support":   func(d, s *pipeline.Options) { d.MinSupport = s.MinSupport },
	"max-items":     func(d, s *pipeline.Options) { d.MaxItems = s.MaxItems },
	"must-contain":  func(d, s *pipeline.Options) { d.MustContain = s.MustContain },
	"find-min":      func(d, s *pipeline.Options) { d.FindMinNumberOfItemsets = s.FindMinNumberOfItemsets },
	"min-itemsets":  func(d, s *pipeline.Options) { d.MinNumberOfItemsets = s.MinNumberOfItemsets },
	"max-retries":   func(d, s *pipeline.Options) { d.MaxNumberOfRetries = s.MaxNumberOfRetries },
	"projection":    func(d, s *pipeline.Options) { d.Projection = s.Projection },
	"refresh":       func(d, s *pipeline.Options) { d.Refresh = s.Refresh },
}

// options returns the effective options: the configuration file if given,
// overridden by every flag set on the command line.
func (f *mineFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	if f.config == "" {
		return f.opts, nil
	}
	opts, err := pipeline.LoadOptions(f.config)
	if err != nil {
		return opts, err
	}
	for name, set := range optionFlags {
		if cmd.Flags().Changed(name) {
			set(&opts, &f.opts)
		}
	}
	return opts, nil
}

func (c *CLI) runMine(ctx context.Context, w io.Writer, in pipeline.Input, opts pipeline.Options, flags mineFlags) error {
	runner, err := c.newRunner(flags.noCache, flags.report)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Mining "+in.Name+"...")
	opts.Progress = func(p fpgrowth.Progress) {
		spinner.SetMessage(progressMessage(p))
	}
	spinner.Start()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, in, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Mined %d itemsets", len(res.ItemSets)))

	if flags.output != "" {
		if err := writeResultJSON(flags.output, res); err != nil {
			return err
		}
		if flags.output != "-" {
			printSuccess("Result written")
			printFile(flags.output)
		}
		return nil
	}

	for _, d := range res.Dropped {
		printWarning("%s", d)
	}

	sets := sortItemSets(res.ItemSets)
	if flags.interactive && len(sets) > 0 {
		_, err := tea.NewProgram(NewItemSetBrowser(sets, res.Rows), tea.WithAltScreen()).Run()
		return err
	}

	printResultSummary(res)
	if len(sets) == 0 {
		printInfo("No frequent itemsets at support %s", formatSupport(res.MinSupport))
		if !opts.FindMinNumberOfItemsets {
			printNextStep("Try lowering the threshold", "fpminer mine "+in.Name+" --find-min")
		}
		return nil
	}
	fmt.Fprintln(w, renderItemSetTable(sets, res.Rows, flags.top))
	if flags.top > 0 && len(sets) > flags.top {
		printDetail("%d more itemsets, use --top 0 or -o to see all", len(sets)-flags.top)
	}
	if res.ReportID != "" {
		printNextStep("Show report", "fpminer reports show "+res.ReportID)
	}
	return nil
}

// readInput reads a dataset from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) (pipeline.Input, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return pipeline.Input{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		return pipeline.Input{Name: "stdin", Data: data}, nil
	}
	if err := errs.ValidatePath(path); err != nil {
		return pipeline.Input{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Input{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return pipeline.Input{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", path)
	}
	return pipeline.Input{Name: path, Data: data}, nil
}

func writeResultJSON(path string, res *pipeline.Result) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// progressMessage formats a mining progress event for the spinner.
func progressMessage(p fpgrowth.Progress) string {
	if p.Item < 0 {
		return fmt.Sprintf("Attempt %d: mining at support %s...", p.Attempt, formatSupport(p.MinSupport))
	}
	return fmt.Sprintf("Attempt %d: item %d/%d at support %s...", p.Attempt, p.Item+1, p.Items, formatSupport(p.MinSupport))
}

// =============================================================================
// Itemset Formatting
// =============================================================================

// sortItemSets returns a copy of sets ordered by support, then by length and
// then by name.
func sortItemSets(sets []report.ItemSet) []report.ItemSet {
	sorted := slices.Clone(sets)
	slices.SortStableFunc(sorted, func(a, b report.ItemSet) int {
		if c := cmp.Compare(b.Support, a.Support); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.Items), len(b.Items)); c != 0 {
			return c
		}
		return cmp.Compare(itemSetLabel(a), itemSetLabel(b))
	})
	return sorted
}

// itemSetLabel names the items of s in alphabetical order, independent of the
// order they were mined in.
func itemSetLabel(s report.ItemSet) string {
	return "{" + strings.Join(slices.Sorted(slices.Values(s.Items)), ", ") + "}"
}

func formatSupport(s float64) string {
	return strconv.FormatFloat(s, 'g', 4, 64)
}

// relativeSupport formats support as a share of rows.
func relativeSupport(support, rows int) string {
	if rows == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(support)/float64(rows))
}

// renderItemSetTable renders up to top itemsets as a table. A top of zero or
// less renders all of them.
func renderItemSetTable(sets []report.ItemSet, rows, top int) string {
	if top > 0 && len(sets) > top {
		sets = sets[:top]
	}
	data := make([][]string, len(sets))
	for i, s := range sets {
		data[i] = []string{
			itemSetLabel(s),
			strconv.Itoa(len(s.Items)),
			strconv.Itoa(s.Support),
			relativeSupport(s.Support, rows),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Itemset", "Size", "Support", "Share").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorCyan)
		}).
		Render()
}

// printResultSummary prints the outcome of the adaptive loop.
func printResultSummary(res *pipeline.Result) {
	printKeyValue("Columns", strconv.Itoa(len(res.Columns)))
	printKeyValue("Rows", strconv.Itoa(res.Rows))
	printKeyValue("Support", fmt.Sprintf("%s (min count %d)", formatSupport(res.MinSupport), res.MinCount))
	printKeyValue("Attempts", strconv.Itoa(len(res.Attempts)))
	printStats(len(res.ItemSets), res.Stats.Nodes, res.CacheInfo.Hit)
	if n := len(res.Attempts); n > 0 && res.Attempts[n-1].Abandoned {
		printWarning("A mandatory item is not frequent at this support")
	}
}

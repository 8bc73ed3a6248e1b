package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/fpminer/pkg/errors"
	"github.com/matzehuels/fpminer/pkg/report"
)

// reportsCommand creates the reports command for managing stored run reports.
func (c *CLI) reportsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage stored run reports",
		Long:  `List, show and delete the reports written by "fpminer mine --report".`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "report directory (default $XDG_DATA_HOME/fpminer/reports)")

	open := func() (*report.FileStore, error) { return report.NewFileStore(dir) }

	cmd.AddCommand(c.reportsListCommand(open))
	cmd.AddCommand(c.reportsShowCommand(open))
	cmd.AddCommand(c.reportsDeleteCommand(open))

	return cmd
}

type openStore func() (*report.FileStore, error)

// reportsListCommand creates the "reports list" subcommand.
func (c *CLI) reportsListCommand(open openStore) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			reports, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("No reports")
				printDetail("Directory: %s", store.Path())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(reports))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports (0 for all)")

	return cmd
}

// reportsShowCommand creates the "reports show" subcommand.
func (c *CLI) reportsShowCommand(open openStore) *cobra.Command {
	var asJSON bool
	var top int

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateReportID(args[0]); err != nil {
				return err
			}
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printReport(r)
			if len(r.ItemSets) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderItemSetTable(sortItemSets(r.ItemSets), r.Rows, top))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&top, "top", defaultTop, "number of itemsets to print (0 for all)")

	return cmd
}

// reportsDeleteCommand creates the "reports delete" subcommand.
func (c *CLI) reportsDeleteCommand(open openStore) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := errs.ValidateReportID(id); err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

func renderReportTable(reports []*report.Report) string {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Input,
			strconv.Itoa(len(r.ItemSets)),
			formatSupport(r.FinalMinSupport),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Input", "Itemsets", "Support").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 1:
				return StyleDim
			case col >= 3:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

func printReport(r *report.Report) {
	fmt.Println(StyleTitle.Render("Report " + r.ID))
	printKeyValue("Input", r.Input)
	printKeyValue("Created", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printKeyValue("Dataset", fmt.Sprintf("%d columns, %d rows", r.Columns, r.Rows))
	printKeyValue("Support", fmt.Sprintf("%s (min count %d)", StyleHighlight.Render(formatSupport(r.FinalMinSupport)), r.FinalMinCount))
	if r.Settings.MustContain != "" {
		printKeyValue("Contains", r.Settings.MustContain)
	}
	printKeyValue("Duration", fmt.Sprintf("%dms", r.DurationMS))
	for _, d := range r.Dropped {
		printDetail("%s", d)
	}
	if len(r.Attempts) > 1 {
		printNewline()
		for i, a := range r.Attempts {
			printDetail("attempt %d: support %s, %d itemsets", i+1, formatSupport(a.MinSupport), a.ItemSets)
		}
	}
	printNewline()
}

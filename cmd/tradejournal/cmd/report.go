package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/rustyeddy/tradejournal/scheduler"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a performance report",
	Long: `Write a performance report as text, Org-mode or Excel.

Without --output the report job runs once, writing report-YYYY-MM-DD files
in every format into report.dir, the same as the scheduled job in serve.

Examples:
  tradejournal report
  tradejournal report --format xlsx -o march.xlsx
  tradejournal report --format org -o journal.org --title "Q1 review"`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportFormat string
	reportOutput string
	reportTitle  string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "org", "text, org or xlsx")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file")
	reportCmd.Flags().StringVar(&reportTitle, "title", "Trade Journal", "report title")
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if reportOutput == "" {
		sched := scheduler.New(cmd.Context(), e.store, scheduler.Options{
			Dir:             e.cfg.Report.Dir,
			StartingBalance: e.cfg.Account.StartingBalance,
			Currency:        e.cfg.Account.Currency,
			Location:        loc,
			Formats:         []report.Format{report.FormatText, report.FormatOrg, report.FormatXLSX},
		}, e.log)
		paths, err := sched.RunNow(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(out, "✓ %s\n", p)
		}
		return nil
	}

	recs, err := e.store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	summary := analytics.Summarize(recs, e.cfg.Account.StartingBalance, loc)
	meta := report.NewMeta(reportTitle, e.cfg.Account.Currency, "all time")
	if err := report.WriteFile(reportOutput, format, summary, recs, meta); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s\n", reportOutput)
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print account and performance statistics",
	Long: `Print the account summary, performance and risk metrics, monthly
PnL and open-trade confluence as tables.

With --month, print that month's PnL calendar instead.

Examples:
  tradejournal stats
  tradejournal stats --month 2025-03`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsMonth string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsMonth, "month", "", "calendar month (YYYY-MM)")
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	recs, err := e.store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	out := cmd.OutOrStdout()
	if statsMonth != "" {
		m, err := time.ParseInLocation("2006-01", statsMonth, loc)
		if err != nil {
			return fmt.Errorf("month: %w", err)
		}
		report.WriteCalendar(out, analytics.BucketMonthly(recs, m.Year(), m.Month(), loc), loc)
		return nil
	}

	summary := analytics.Summarize(recs, e.cfg.Account.StartingBalance, loc)
	return report.WriteText(out, summary, report.NewMeta("Trade Journal", e.cfg.Account.Currency, "all time"))
}

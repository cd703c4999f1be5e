package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query trades",
	Long: `Record trades and display journal entries.

Subcommands:
  add    - Record a new trade
  close  - Close an open trade at an exit price
  list   - Table of all trades
  trade  - Org entry for a single trade
  today  - Org entries for trades closed today
  day    - Org entries for trades closed on a specific day

Examples:
  tradejournal journal add EURUSD --entry 1.0850 --lot 0.1 --weekly 80
  tradejournal journal close 12 --exit 1.0920
  tradejournal journal trade 12
  tradejournal journal day 2024-01-15`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Record a new trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalAdd,
}

var journalCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalClose,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var addFlags struct {
	direction string
	entry     float64
	exit      float64
	lot       float64
	pnl       float64
	date      string
	notes     string
	scores    [5]int
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd, journalCloseCmd, journalListCmd, journalTradeCmd, journalTodayCmd, journalDayCmd)

	f := journalAddCmd.Flags()
	f.StringVar(&addFlags.direction, "dir", "LONG", "LONG or SHORT")
	f.Float64Var(&addFlags.entry, "entry", 0, "entry price")
	f.Float64Var(&addFlags.exit, "exit", 0, "exit price; closes the trade")
	f.Float64Var(&addFlags.lot, "lot", 1, "lot size")
	f.Float64Var(&addFlags.pnl, "pnl", 0, "realized P/L, overrides the derived value")
	f.StringVar(&addFlags.date, "date", "", "trade date (YYYY-MM-DD or RFC3339); now when empty")
	f.StringVar(&addFlags.notes, "notes", "", "thesis / notes")
	for i, name := range []string{"weekly", "daily", "h4", "h1", "lower"} {
		f.IntVar(&addFlags.scores[i], name, 0, name+" confluence score (0-100)")
	}

	journalCloseCmd.Flags().Float64Var(&addFlags.exit, "exit", 0, "exit price")
	journalCloseCmd.Flags().Float64Var(&addFlags.pnl, "pnl", 0, "realized P/L instead of an exit price")
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	dir, err := journal.ParseDirection(addFlags.direction)
	if err != nil {
		return err
	}
	in := journal.TradeInput{
		Symbol:    journal.String(args[0]),
		Direction: &dir,
		LotSize:   journal.Float(addFlags.lot),
		Notes:     journal.String(addFlags.notes),
	}
	flags := cmd.Flags()
	if flags.Changed("entry") {
		in.EntryPrice = journal.Float(addFlags.entry)
	}
	if flags.Changed("exit") {
		in.ExitPrice = journal.Float(addFlags.exit)
	}
	if flags.Changed("pnl") {
		in.PnL = journal.Float(addFlags.pnl)
		closed := journal.Closed
		in.Status = &closed
	}
	if addFlags.date != "" {
		loc, err := e.cfg.Location()
		if err != nil {
			return err
		}
		t, err := parseDay(addFlags.date, loc)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		in.TradeDate = &t
	}
	var conf journal.ConfluenceInput
	for i, dst := range []**int{&conf.Weekly, &conf.Daily, &conf.H4, &conf.H1, &conf.Lower} {
		*dst = journal.Int(addFlags.scores[i])
	}
	in.Confluence = &conf

	rec, err := e.store.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}
	e.log.WithField("trade", rec.ID).Info("trade recorded")
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalClose(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("trade id: %w", err)
	}
	var patch journal.TradeInput
	switch {
	case cmd.Flags().Changed("exit"):
		patch.ExitPrice = journal.Float(addFlags.exit)
	case cmd.Flags().Changed("pnl"):
		patch.PnL = journal.Float(addFlags.pnl)
		closed := journal.Closed
		patch.Status = &closed
	default:
		return fmt.Errorf("--exit or --pnl is required")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.store.Update(cmd.Context(), id, patch)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	e.log.WithFields(logrus.Fields{"trade": rec.ID, "pnl": rec.PnL}).Info("trade closed")
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
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
	report.WriteTrades(cmd.OutOrStdout(), recs, loc)
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("trade id: %w", err)
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.store.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return printDay(cmd, "")
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return printDay(cmd, args[0])
}

// printDay prints the Org entries for trades closed on day; today when empty.
func printDay(cmd *cobra.Command, day string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	if day == "" {
		day = time.Now().In(loc).Format("2006-01-02")
	}
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := journal.ClosedBetween(cmd.Context(), e.store, start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func keyValueColumns(t table.Writer) {
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 14, Align: text.AlignRight},
	})
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }
func pct(v float64) string   { return fmt.Sprintf("%.2f%%", v) }

// ratio prints the no-denominator sentinel as ∞. A genuine ratio of exactly
// 999 is indistinguishable from the sentinel and prints as ∞ too.
func ratio(v float64) string {
	if v == analytics.Sentinel {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}

// WriteText renders the summary as a set of terminal tables.
func WriteText(w io.Writer, s analytics.Summary, meta Meta) error {
	if meta.Title != "" {
		fmt.Fprintf(w, "%s", meta.Title)
		if meta.Period != "" {
			fmt.Fprintf(w, " (%s)", meta.Period)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}

	acct := newTable(w, "ACCOUNT")
	acct.AppendRows([]table.Row{
		{"Start Balance", money(s.Account.StartingBalance)},
		{"Current Balance", money(s.Account.CurrentBalance)},
		{"Net P/L", money(s.Account.TotalPnL)},
		{"Return", pct(s.Account.ReturnPct)},
	})
	acct.AppendSeparator()
	acct.AppendRows([]table.Row{
		{"Trades", s.Account.TotalTrades},
		{"Closed", s.Account.ClosedTrades},
		{"Open", s.Account.OpenTrades},
		{"Wins", s.Account.WinningTrades},
		{"Losses", s.Account.LosingTrades},
	})
	keyValueColumns(acct)
	acct.Render()
	fmt.Fprintln(w)

	perf := newTable(w, "PERFORMANCE")
	perf.AppendRows([]table.Row{
		{"Win Rate", fmt.Sprintf("%.1f%%", s.Metrics.WinRate)},
		{"Profit Factor", ratio(s.Metrics.ProfitFactor)},
		{"Expectancy", money(s.Metrics.Expectancy)},
		{"Avg Win", money(s.Metrics.AvgWin)},
		{"Avg Loss", money(s.Metrics.AvgLoss)},
		{"Largest Win", money(s.Metrics.LargestWin)},
		{"Largest Loss", money(s.Metrics.LargestLoss)},
		{"Avg Confluence", fmt.Sprintf("%.1f", s.Metrics.AvgConfluence)},
	})
	perf.AppendSeparator()
	perf.AppendRows([]table.Row{
		{"Max Drawdown", pct(s.Risk.MaxDrawdown)},
		{"Recovery Factor", ratio(s.Risk.RecoveryFactor)},
		{"Sharpe (per trade)", fmt.Sprintf("%.2f", s.Risk.SharpeLike)},
		{"Best Day", money(s.Risk.BestDay)},
		{"Worst Day", money(s.Risk.WorstDay)},
		{"Max Win Streak", s.Risk.MaxConsecutiveWins},
		{"Max Loss Streak", s.Risk.MaxConsecutiveLosses},
	})
	keyValueColumns(perf)
	perf.Render()
	fmt.Fprintln(w)

	if len(s.Monthly) > 0 {
		mt := newTable(w, "MONTHLY")
		mt.AppendHeader(table.Row{"Month", "Trades", "P/L"})
		var total float64
		for _, m := range s.Monthly {
			mt.AppendRow(table.Row{m.Month, m.Trades, money(m.PnL)})
			total += m.PnL
		}
		mt.AppendFooter(table.Row{"", "Total", money(total)})
		mt.Render()
		fmt.Fprintln(w)
	}

	conf := newTable(w, "OPEN CONFLUENCE")
	conf.AppendHeader(table.Row{"W", "D", "H4", "H1", "LTF", "Total", "Label"})
	c := s.Confluence
	conf.AppendRow(table.Row{c.Weekly, c.Daily, c.H4, c.H1, c.Lower, c.Total, c.Label})
	conf.Render()
	return nil
}

// WriteTrades renders trades as a single table, one row each.
func WriteTrades(w io.Writer, trades []journal.TradeRecord, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	t := newTable(w, "TRADES")
	t.AppendHeader(table.Row{"#", "Date", "Symbol", "Dir", "Entry", "Exit", "Lots", "P/L", "Status", "Conf"})
	var total float64
	for _, tr := range trades {
		t.AppendRow(table.Row{
			tr.ID,
			tr.TradeDate.In(loc).Format("2006-01-02 15:04"),
			tr.Symbol,
			tr.Direction,
			price(tr.EntryPrice),
			price(tr.ExitPrice),
			tr.LotSize,
			money(tr.PnL),
			tr.Status,
			tr.TotalConfluence,
		})
		if tr.IsClosed() {
			total += tr.PnL
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Closed", money(total), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 8, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func price(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f", *p)
}

// WriteCalendar renders a month as a Sunday-first grid of daily PnL with a
// weekly total column.
func WriteCalendar(w io.Writer, cal analytics.MonthlyCalendar, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	t := newTable(w, fmt.Sprintf("%s %d", cal.Month, cal.Year))
	t.AppendHeader(table.Row{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Week"})

	first := time.Date(cal.Year, cal.Month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	day := 1 - int(first.Weekday())
	for _, wk := range cal.Weeks {
		row := make(table.Row, 0, 8)
		for i := 0; i < 7; i, day = i+1, day+1 {
			if day < 1 || day > last {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%2d %s", day, money(cal.DayPnL(day))))
		}
		row = append(row, money(wk.PnL))
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d trades", cal.Trades), money(cal.TotalPnL)})
	t.Render()
}

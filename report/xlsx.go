package report

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	dailySheet   = "Daily"
	equitySheet  = "Equity"
)

type xlsxStyles struct {
	header, positive, negative int
}

func newStyles(fx *excelize.File) (xlsxStyles, error) {
	var st xlsxStyles
	var err error
	if st.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	}); err != nil {
		return st, err
	}
	if st.positive, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	}); err != nil {
		return st, err
	}
	if st.negative, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	}); err != nil {
		return st, err
	}
	return st, nil
}

// WriteXLSX saves a workbook with Summary, Trades, Daily and Equity sheets.
func WriteXLSX(path string, s analytics.Summary, trades []journal.TradeRecord, meta Meta) error {
	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	for _, name := range []string{tradesSheet, dailySheet, equitySheet} {
		if _, err := fx.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	st, err := newStyles(fx)
	if err != nil {
		return fmt.Errorf("xlsx styles: %w", err)
	}

	w := &sheetWriter{fx: fx, st: st}
	w.summary(s, meta)
	w.trades(trades)
	w.daily(s.Daily)
	w.equity(s.Equity)
	if w.err != nil {
		return w.err
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// sheetWriter keeps the first error so the per-cell calls stay readable.
type sheetWriter struct {
	fx  *excelize.File
	st  xlsxStyles
	err error
}

func (w *sheetWriter) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.fx.SetCellValue(sheet, cell, v)
}

func (w *sheetWriter) style(sheet string, col, row, style int) {
	if w.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	w.err = w.fx.SetCellStyle(sheet, cell, cell, style)
}

func (w *sheetWriter) header(sheet string, cols ...string) {
	for i, h := range cols {
		w.set(sheet, i+1, 1, h)
		w.style(sheet, i+1, 1, w.st.header)
	}
}

// pnl writes a money cell coloured by sign.
func (w *sheetWriter) pnl(sheet string, col, row int, v float64) {
	w.set(sheet, col, row, v)
	switch {
	case v > 0:
		w.style(sheet, col, row, w.st.positive)
	case v < 0:
		w.style(sheet, col, row, w.st.negative)
	}
}

func (w *sheetWriter) summary(s analytics.Summary, meta Meta) {
	w.header(summarySheet, "Metric", "Value")
	rows := []struct {
		k string
		v any
	}{
		{"Run ID", meta.RunID},
		{"Title", meta.Title},
		{"Period", meta.Period},
		{"Currency", meta.Currency},
		{"Created", meta.Created.Format(time.RFC3339)},
		{"Starting Balance", s.Account.StartingBalance},
		{"Current Balance", s.Account.CurrentBalance},
		{"Net P/L", s.Account.TotalPnL},
		{"Return %", s.Account.ReturnPct},
		{"Trades", s.Account.TotalTrades},
		{"Closed", s.Account.ClosedTrades},
		{"Open", s.Account.OpenTrades},
		{"Win Rate %", s.Metrics.WinRate},
		{"Profit Factor", s.Metrics.ProfitFactor},
		{"Expectancy", s.Metrics.Expectancy},
		{"Avg Win", s.Metrics.AvgWin},
		{"Avg Loss", s.Metrics.AvgLoss},
		{"Largest Win", s.Metrics.LargestWin},
		{"Largest Loss", s.Metrics.LargestLoss},
		{"Max Drawdown %", s.Risk.MaxDrawdown},
		{"Recovery Factor", s.Risk.RecoveryFactor},
		{"Sharpe (per trade)", s.Risk.SharpeLike},
		{"Max Win Streak", s.Risk.MaxConsecutiveWins},
		{"Max Loss Streak", s.Risk.MaxConsecutiveLosses},
		{"Best Day", s.Risk.BestDay},
		{"Worst Day", s.Risk.WorstDay},
		{"Open Confluence", s.Confluence.Total},
	}
	for i, r := range rows {
		w.set(summarySheet, 1, i+2, r.k)
		w.set(summarySheet, 2, i+2, r.v)
	}
	if w.err == nil {
		w.err = w.fx.SetColWidth(summarySheet, "A", "A", 22)
	}
}

func (w *sheetWriter) trades(trades []journal.TradeRecord) {
	w.header(tradesSheet, "ID", "Date", "Symbol", "Direction", "Entry", "Exit", "Lots", "P/L", "Status",
		"Weekly", "Daily", "H4", "H1", "Lower", "Confluence", "Notes")
	for i, t := range trades {
		row := i + 2
		values := []any{
			t.ID,
			t.TradeDate.Format("2006-01-02 15:04:05"),
			t.Symbol,
			string(t.Direction),
			optional(t.EntryPrice),
			optional(t.ExitPrice),
			t.LotSize,
		}
		for c, v := range values {
			w.set(tradesSheet, c+1, row, v)
		}
		w.pnl(tradesSheet, 8, row, t.PnL)
		for c, v := range []any{
			string(t.Status),
			t.Confluence.Weekly, t.Confluence.Daily, t.Confluence.H4, t.Confluence.H1, t.Confluence.Lower,
			t.TotalConfluence,
			t.Notes,
		} {
			w.set(tradesSheet, c+9, row, v)
		}
	}
}

func optional(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}

func (w *sheetWriter) daily(days []analytics.DailyPnL) {
	w.header(dailySheet, "Date", "Trades", "P/L")
	for i, d := range days {
		w.set(dailySheet, 1, i+2, d.Date)
		w.set(dailySheet, 2, i+2, d.Trades)
		w.pnl(dailySheet, 3, i+2, d.PnL)
	}
}

func (w *sheetWriter) equity(curve []analytics.EquityPoint) {
	w.header(equitySheet, "Date", "Trade", "Balance", "Peak", "Drawdown %")
	for i, p := range curve {
		row := i + 2
		date := ""
		if !p.Date.IsZero() {
			date = p.Date.Format("2006-01-02 15:04:05")
		}
		w.set(equitySheet, 1, row, date)
		w.set(equitySheet, 2, row, p.TradeID)
		w.set(equitySheet, 3, row, p.Balance)
		w.set(equitySheet, 4, row, p.Peak)
		w.set(equitySheet, 5, row, p.DrawdownPercent)
	}
}

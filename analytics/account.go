package analytics

import "github.com/rustyeddy/tradejournal/journal"

// AccountStats is derived on demand and never stored.
type AccountStats struct {
	StartingBalance float64 `json:"startingBalance"`
	CurrentBalance  float64 `json:"currentBalance"`
	TotalPnL        float64 `json:"totalPnl"`
	ReturnPct       float64 `json:"returnPct"`
	TotalTrades     int     `json:"totalTrades"`
	ClosedTrades    int     `json:"closedTrades"`
	OpenTrades      int     `json:"openTrades"`
	WinningTrades   int     `json:"winningTrades"`
	LosingTrades    int     `json:"losingTrades"`
}

// ComputeAccountStats sums PnL over CLOSED trades onto startingBalance.
// Break-even trades count toward the totals but are neither wins nor losses.
func ComputeAccountStats(trades []journal.TradeRecord, startingBalance float64) AccountStats {
	st := AccountStats{
		StartingBalance: startingBalance,
		TotalTrades:     len(trades),
	}

	var total float64
	for _, t := range trades {
		if !t.IsClosed() {
			st.OpenTrades++
			continue
		}
		st.ClosedTrades++
		total += t.PnL
		switch {
		case t.PnL > 0:
			st.WinningTrades++
		case t.PnL < 0:
			st.LosingTrades++
		}
	}

	st.TotalPnL = round2(total)
	st.CurrentBalance = round2(startingBalance + total)
	if startingBalance > 0 {
		st.ReturnPct = round2(total / startingBalance * 100)
	}
	return st
}

package analytics

import "github.com/rustyeddy/tradejournal/journal"

// Metrics are the per-trade ratios shown on the dashboard. Everything except
// OpenTrades is computed over CLOSED trades only.
type Metrics struct {
	ProfitFactor  float64 `json:"profitFactor"`
	WinRate       float64 `json:"winRate"`
	AvgWin        float64 `json:"avgWin"`
	AvgLoss       float64 `json:"avgLoss"`
	LargestWin    float64 `json:"largestWin"`
	LargestLoss   float64 `json:"largestLoss"`
	AvgConfluence float64 `json:"avgConfluence"`
	Expectancy    float64 `json:"expectancy"`
	TotalTrades   int     `json:"totalTrades"`
	OpenTrades    int     `json:"openTrades"`
}

func ComputeMetrics(trades []journal.TradeRecord) Metrics {
	var (
		m                     Metrics
		totalWins, totalLoss  float64
		wins, losses          int
		largestWin, worstLoss float64
		confSum, pnlSum       float64
	)

	for _, t := range trades {
		if t.IsOpen() {
			m.OpenTrades++
			continue
		}
		if !t.IsClosed() {
			continue
		}
		m.TotalTrades++
		pnlSum += t.PnL
		confSum += float64(t.TotalConfluence)

		switch {
		case t.PnL > 0:
			wins++
			totalWins += t.PnL
			if t.PnL > largestWin {
				largestWin = t.PnL
			}
		case t.PnL < 0:
			losses++
			totalLoss += t.PnL
			if t.PnL < worstLoss {
				worstLoss = t.PnL
			}
		}
	}

	m.ProfitFactor = ProfitFactor(totalWins, totalLoss)
	if m.TotalTrades > 0 {
		n := float64(m.TotalTrades)
		m.WinRate = round1(float64(wins) / n * 100)
		m.AvgConfluence = round1(confSum / n)
		m.Expectancy = round2(pnlSum / n)
	}
	if wins > 0 {
		m.AvgWin = round2(totalWins / float64(wins))
	}
	if losses > 0 {
		m.AvgLoss = round2(-totalLoss / float64(losses))
	}
	m.LargestWin = round2(largestWin)
	m.LargestLoss = round2(worstLoss)
	return m
}

// ProfitFactor is gross profit over gross loss magnitude. totalLosses is the
// (non-positive) sum of losing PnL. With no losses it is Sentinel when there
// were wins and 0 otherwise.
func ProfitFactor(totalWins, totalLosses float64) float64 {
	if totalLosses == 0 {
		if totalWins > 0 {
			return Sentinel
		}
		return 0
	}
	return round2(totalWins / -totalLosses)
}

package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// Summary is every dashboard figure computed from one snapshot of trades.
type Summary struct {
	Account    AccountStats      `json:"account"`
	Metrics    Metrics           `json:"metrics"`
	Risk       RiskMetrics       `json:"risk"`
	Confluence ConfluenceSummary `json:"confluence"`
	Daily      []DailyPnL        `json:"daily"`
	Monthly    []MonthPnL        `json:"monthly"`
	Equity     []EquityPoint     `json:"equity"`
}

// Summarize runs the whole engine over trades. Confluence is averaged over
// OPEN trades, as on the live dashboard.
func Summarize(trades []journal.TradeRecord, startingBalance float64, loc *time.Location) Summary {
	return Summary{
		Account:    ComputeAccountStats(trades, startingBalance),
		Metrics:    ComputeMetrics(trades),
		Risk:       ComputeRisk(trades, startingBalance, loc),
		Confluence: AverageConfluence(trades, OpenOnly),
		Daily:      BucketDailyPnL(trades, loc),
		Monthly:    BucketByMonth(trades, loc),
		Equity:     ComputeEquityCurve(trades, startingBalance),
	}
}

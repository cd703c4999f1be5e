package analytics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

const (
	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"
)

// ScoreConfluence returns the rounded mean of the five timeframe scores.
// Scores outside [0,100] are clamped first.
func ScoreConfluence(c journal.Confluence) int {
	return c.Total()
}

// ConfluenceLabel maps a 0-100 score to High (>=70), Medium (>=40) or Low.
func ConfluenceLabel(score int) string {
	switch {
	case score >= 70:
		return LabelHigh
	case score >= 40:
		return LabelMedium
	default:
		return LabelLow
	}
}

// ConfluenceSummary is the per-timeframe average over a set of trades.
type ConfluenceSummary struct {
	Weekly int    `json:"weekly"`
	Daily  int    `json:"daily"`
	H4     int    `json:"h4"`
	H1     int    `json:"h1"`
	Lower  int    `json:"lower"`
	Total  int    `json:"total"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// AverageConfluence averages each timeframe over the trades accepted by
// keep (all trades when keep is nil). Each average is rounded to an integer;
// Total is the rounded mean of those five averages.
func AverageConfluence(trades []journal.TradeRecord, keep func(journal.TradeRecord) bool) ConfluenceSummary {
	var sum [5]int
	n := 0
	for _, t := range trades {
		if keep != nil && !keep(t) {
			continue
		}
		c := t.Confluence.Clamp()
		sum[0] += c.Weekly
		sum[1] += c.Daily
		sum[2] += c.H4
		sum[3] += c.H1
		sum[4] += c.Lower
		n++
	}
	if n == 0 {
		return ConfluenceSummary{Label: LabelLow}
	}

	avg := func(s int) int { return int(math.Round(float64(s) / float64(n))) }
	c := journal.Confluence{
		Weekly: avg(sum[0]),
		Daily:  avg(sum[1]),
		H4:     avg(sum[2]),
		H1:     avg(sum[3]),
		Lower:  avg(sum[4]),
	}
	total := ScoreConfluence(c)
	return ConfluenceSummary{
		Weekly: c.Weekly,
		Daily:  c.Daily,
		H4:     c.H4,
		H1:     c.H1,
		Lower:  c.Lower,
		Total:  total,
		Label:  ConfluenceLabel(total),
		Count:  n,
	}
}

// OpenOnly is the filter the dashboard uses for live confluence.
func OpenOnly(t journal.TradeRecord) bool { return t.IsOpen() }

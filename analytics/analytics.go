// Package analytics turns trade records into account statistics, risk
// metrics, equity curves and calendar buckets.
//
// Every function is pure: inputs are never mutated, nothing is cached and
// an empty trade list yields zero-valued results. Ratios never divide by
// zero; each one has an explicit fallback.
//
// Output precision: money and ratios are rounded to 2 decimals, WinRate and
// AvgConfluence to 1 decimal, drawdown percentages to 2 decimals. Rounding is
// half away from zero.
package analytics

import (
	"math"
	"sort"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// Sentinel is reported for ratios whose denominator is zero while the
// numerator is positive (no losses, or profit with no drawdown).
const Sentinel = 999.0

// round leaves NaN and ±Inf as they are; decimal cannot represent them.
func round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return v
}

func round2(x float64) float64 { return round(x, 2) }
func round1(x float64) float64 { return round(x, 1) }

// closedChronological returns the CLOSED trades ordered by trade date, then
// ID. The input slice is left untouched.
func closedChronological(trades []journal.TradeRecord) []journal.TradeRecord {
	out := make([]journal.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TradeDate.Equal(out[j].TradeDate) {
			return out[i].TradeDate.Before(out[j].TradeDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

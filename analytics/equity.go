package analytics

import (
	"math"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// EquityPoint is the account balance after one closed trade. The first point
// of a curve is the starting balance and carries TradeID 0.
type EquityPoint struct {
	Date            time.Time `json:"date"`
	TradeID         int64     `json:"tradeId"`
	Balance         float64   `json:"balance"`
	Peak            float64   `json:"peak"`
	DrawdownPercent float64   `json:"drawdownPercent"`
}

// ComputeEquityCurve walks CLOSED trades in date order from startingBalance,
// tracking the running peak and the drawdown from it. The synthetic first
// point is dated at the earliest closed trade (zero time when there is none).
func ComputeEquityCurve(trades []journal.TradeRecord, startingBalance float64) []EquityPoint {
	pts := walk(closedChronological(trades), startingBalance)
	for i := range pts {
		pts[i].Balance = round2(pts[i].Balance)
		pts[i].Peak = round2(pts[i].Peak)
		pts[i].DrawdownPercent = round2(pts[i].DrawdownPercent)
	}
	return pts
}

// walk expects closed trades already in chronological order and returns
// unrounded points.
func walk(closed []journal.TradeRecord, start float64) []EquityPoint {
	pts := make([]EquityPoint, 0, len(closed)+1)
	first := EquityPoint{Balance: start, Peak: start}
	if len(closed) > 0 {
		first.Date = closed[0].TradeDate
	}
	pts = append(pts, first)

	balance, peak := start, start
	for _, t := range closed {
		balance += t.PnL
		if balance > peak {
			peak = balance
		}
		pts = append(pts, EquityPoint{
			Date:            t.TradeDate,
			TradeID:         t.ID,
			Balance:         balance,
			Peak:            peak,
			DrawdownPercent: drawdownPct(peak, balance),
		})
	}
	return pts
}

func drawdownPct(peak, balance float64) float64 {
	if balance >= peak || peak <= 0 {
		return 0
	}
	return (peak - balance) / peak * 100
}

// MaxDrawdown is the largest DrawdownPercent on the curve.
func MaxDrawdown(curve []EquityPoint) float64 {
	var dd float64
	for _, p := range curve {
		if p.DrawdownPercent > dd {
			dd = p.DrawdownPercent
		}
	}
	return dd
}

// RecoveryFactor is net profit over the money lost at the deepest
// drawdown, measured against the starting balance. With no drawdown it is
// Sentinel for a profitable account and 0 otherwise.
func RecoveryFactor(totalPnL, startingBalance, maxDrawdownPct float64) float64 {
	ddAmount := startingBalance * maxDrawdownPct / 100
	if maxDrawdownPct <= 0 || ddAmount == 0 {
		if totalPnL > 0 {
			return Sentinel
		}
		return 0
	}
	return round2(totalPnL / ddAmount)
}

// SharpeLike is mean(per-trade return %) / population stddev, where each
// return is the trade's PnL over the balance just before it. It is not an
// annualized Sharpe ratio.
func SharpeLike(trades []journal.TradeRecord, startingBalance float64) float64 {
	return round2(sharpe(closedChronological(trades), startingBalance))
}

func sharpe(closed []journal.TradeRecord, start float64) float64 {
	returns := make([]float64, 0, len(closed))
	balance := start
	for _, t := range closed {
		if balance > 0 {
			returns = append(returns, t.PnL/balance*100)
		}
		balance += t.PnL
	}
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	std := math.Sqrt(variance)
	if std < 1e-12 {
		return 0
	}
	return mean / std
}

// StreakStats holds the longest winning and losing runs.
type StreakStats struct {
	MaxConsecutiveWins   int `json:"maxConsecutiveWins"`
	MaxConsecutiveLosses int `json:"maxConsecutiveLosses"`
	// Current is positive for an active winning run, negative for a
	// losing run and 0 after a break-even trade.
	Current int `json:"current"`
}

// Streaks scans CLOSED trades in date order. A break-even trade ends both
// runs.
func Streaks(trades []journal.TradeRecord) StreakStats {
	var st StreakStats
	wins, losses := 0, 0
	for _, t := range closedChronological(trades) {
		switch {
		case t.PnL > 0:
			wins++
			losses = 0
		case t.PnL < 0:
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		if wins > st.MaxConsecutiveWins {
			st.MaxConsecutiveWins = wins
		}
		if losses > st.MaxConsecutiveLosses {
			st.MaxConsecutiveLosses = losses
		}
	}
	st.Current = wins - losses
	return st
}

// BestWorstDay returns the highest and lowest per-day PnL sums, using each
// trade's calendar date in loc. Both are 0 with no closed trades.
func BestWorstDay(trades []journal.TradeRecord, loc *time.Location) (best, worst float64) {
	days := BucketDailyPnL(trades, loc)
	for i, d := range days {
		if i == 0 || d.PnL > best {
			best = d.PnL
		}
		if i == 0 || d.PnL < worst {
			worst = d.PnL
		}
	}
	return best, worst
}

// RiskMetrics bundles the equity-curve derived figures.
type RiskMetrics struct {
	MaxDrawdown    float64 `json:"maxDrawdown"`
	RecoveryFactor float64 `json:"recoveryFactor"`
	SharpeLike     float64 `json:"sharpeLike"`
	StreakStats
	BestDay  float64 `json:"bestDay"`
	WorstDay float64 `json:"worstDay"`
}

func ComputeRisk(trades []journal.TradeRecord, startingBalance float64, loc *time.Location) RiskMetrics {
	closed := closedChronological(trades)
	pts := walk(closed, startingBalance)

	var total float64
	for _, t := range closed {
		total += t.PnL
	}
	maxDD := MaxDrawdown(pts)

	best, worst := BestWorstDay(closed, loc)
	return RiskMetrics{
		MaxDrawdown:    round2(maxDD),
		RecoveryFactor: RecoveryFactor(total, startingBalance, maxDD),
		SharpeLike:     round2(sharpe(closed, startingBalance)),
		StreakStats:    Streaks(closed),
		BestDay:        best,
		WorstDay:       worst,
	}
}

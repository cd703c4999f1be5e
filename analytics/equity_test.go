package analytics

import (
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/stretchr/testify/assert"
)

func TestComputeEquityCurve(t *testing.T) {
	t.Parallel()

	// Out of order on purpose; the curve follows trade date.
	trades := []journal.TradeRecord{
		closedTrade(2, 1, -50),
		openTrade(3, 2),
		closedTrade(1, 0, 100),
	}
	curve := ComputeEquityCurve(trades, 1000)

	assert.Len(t, curve, 3)
	assert.Equal(t, int64(0), curve[0].TradeID)
	assert.Equal(t, day0, curve[0].Date)
	assert.Equal(t, 1000.0, curve[0].Balance)

	assert.Equal(t, int64(1), curve[1].TradeID)
	assert.Equal(t, 1100.0, curve[1].Balance)
	assert.Equal(t, 1100.0, curve[1].Peak)
	assert.Equal(t, 0.0, curve[1].DrawdownPercent)

	assert.Equal(t, int64(2), curve[2].TradeID)
	assert.Equal(t, 1050.0, curve[2].Balance)
	assert.Equal(t, 1100.0, curve[2].Peak)
	assert.InDelta(t, 4.545, curve[2].DrawdownPercent, 0.01)

	assert.InDelta(t, 4.545, MaxDrawdown(curve), 0.01)
}

func TestComputeEquityCurveEmpty(t *testing.T) {
	t.Parallel()

	curve := ComputeEquityCurve(nil, 500)
	assert.Equal(t, []EquityPoint{{Balance: 500, Peak: 500}}, curve)
	assert.Equal(t, 0.0, MaxDrawdown(curve))
}

func TestMaxDrawdownIsMonotone(t *testing.T) {
	t.Parallel()

	pnls := []float64{50, -120, 30, -10, 200, -400, 80, 5}
	var trades []journal.TradeRecord
	prev := 0.0
	for i, p := range pnls {
		trades = append(trades, closedTrade(int64(i+1), i, p))
		dd := MaxDrawdown(ComputeEquityCurve(trades, 1000))
		assert.GreaterOrEqual(t, dd, prev, "prefix %d", i+1)
		prev = dd
	}
}

func TestDrawdownWithNonPositivePeak(t *testing.T) {
	t.Parallel()

	curve := ComputeEquityCurve([]journal.TradeRecord{closedTrade(1, 0, -10)}, 0)
	assert.Equal(t, 0.0, MaxDrawdown(curve))
}

func TestRecoveryFactor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sentinel, RecoveryFactor(100, 1000, 0))
	assert.Equal(t, 0.0, RecoveryFactor(0, 1000, 0))
	assert.Equal(t, 0.0, RecoveryFactor(-20, 1000, 0))
	assert.Equal(t, 2.0, RecoveryFactor(100, 1000, 5))
}

func TestSharpeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, SharpeLike(nil, 1000))
	// Identical returns have no spread.
	same := []journal.TradeRecord{closedTrade(1, 0, 0), closedTrade(2, 1, 0)}
	assert.Equal(t, 0.0, SharpeLike(same, 1000))

	trades := []journal.TradeRecord{closedTrade(1, 0, 100), closedTrade(2, 1, -50)}
	// returns 10% and -4.545%; mean 2.727, population stddev 7.273
	assert.InDelta(t, 0.375, SharpeLike(trades, 1000), 0.01)
}

func TestStreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pnls    []float64
		wins    int
		losses  int
		current int
	}{
		{"empty", nil, 0, 0, 0},
		{"w w w l", []float64{10, 20, 5, -7}, 3, 1, -1},
		{"l l w l l l", []float64{-1, -1, 2, -1, -1, -1}, 1, 3, -3},
		{"break even resets", []float64{5, 5, 0, 5, -1, 0, -1}, 2, 1, -1},
		{"ends on win", []float64{-1, 3, 4}, 2, 1, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var trades []journal.TradeRecord
			for i, p := range tc.pnls {
				trades = append(trades, closedTrade(int64(i+1), i, p))
			}
			st := Streaks(trades)
			assert.Equal(t, tc.wins, st.MaxConsecutiveWins)
			assert.Equal(t, tc.losses, st.MaxConsecutiveLosses)
			assert.Equal(t, tc.current, st.Current)
		})
	}
}

func TestBestWorstDay(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		closedTrade(1, 0, 40),
		closedTrade(2, 0, 25),
		closedTrade(3, 1, -30),
		closedTrade(4, 2, 10),
		openTrade(5, 3),
	}
	best, worst := BestWorstDay(trades, time.UTC)
	assert.Equal(t, 65.0, best)
	assert.Equal(t, -30.0, worst)

	best, worst = BestWorstDay(nil, time.UTC)
	assert.Equal(t, 0.0, best)
	assert.Equal(t, 0.0, worst)
}

func TestComputeRisk(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		closedTrade(1, 0, 100),
		closedTrade(2, 1, -50),
	}
	r := ComputeRisk(trades, 1000, time.UTC)
	assert.InDelta(t, 4.545, r.MaxDrawdown, 0.01)
	assert.InDelta(t, 1.1, r.RecoveryFactor, 0.01)
	assert.InDelta(t, 0.375, r.SharpeLike, 0.01)
	assert.Equal(t, 1, r.MaxConsecutiveWins)
	assert.Equal(t, 1, r.MaxConsecutiveLosses)
	assert.Equal(t, 100.0, r.BestDay)
	assert.Equal(t, -50.0, r.WorstDay)
}

package analytics

import (
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, h int, pnl float64) journal.TradeRecord {
	return journal.TradeRecord{
		Symbol:    "XAUUSD",
		Status:    journal.Closed,
		PnL:       pnl,
		TradeDate: time.Date(y, m, d, h, 0, 0, 0, time.UTC),
	}
}

func TestBucketDailyPnL(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		at(2025, 3, 5, 9, 10.1),
		at(2025, 3, 4, 9, -3),
		at(2025, 3, 5, 15, 0.2),
		{Status: journal.Open, TradeDate: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
	}
	days := BucketDailyPnL(trades, time.UTC)
	assert.Equal(t, []DailyPnL{
		{Date: "2025-03-04", PnL: -3, Trades: 1},
		{Date: "2025-03-05", PnL: 10.3, Trades: 2},
	}, days)
}

func TestBucketDailyPnLUsesLocation(t *testing.T) {
	t.Parallel()

	ny := time.FixedZone("EST", -5*3600)
	// 02:00 UTC on the 5th is still the 4th in New York.
	days := BucketDailyPnL([]journal.TradeRecord{at(2025, 3, 5, 2, 1)}, ny)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-04", days[0].Date)
}

func TestBucketMonthly(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		at(2025, 3, 1, 12, 50),  // Saturday, first row
		at(2025, 3, 2, 12, -20), // Sunday, second row
		at(2025, 3, 2, 13, 5),
		at(2025, 3, 31, 12, 7), // Monday, sixth row
		at(2025, 4, 1, 12, 999),
	}
	cal := BucketMonthly(trades, 2025, time.March, time.UTC)

	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, time.March, cal.Month)
	assert.Equal(t, 42.0, cal.TotalPnL)
	assert.Equal(t, 4, cal.Trades)
	assert.Len(t, cal.Days, 3)

	assert.Equal(t, 50.0, cal.DayPnL(1))
	assert.Equal(t, -15.0, cal.DayPnL(2))
	assert.Equal(t, 0.0, cal.DayPnL(15))

	require.Len(t, cal.Weeks, 6)
	assert.Equal(t, WeekPnL{Week: 1, Start: "2025-03-01", End: "2025-03-01", PnL: 50, Trades: 1}, cal.Weeks[0])
	assert.Equal(t, WeekPnL{Week: 2, Start: "2025-03-02", End: "2025-03-08", PnL: -15, Trades: 2}, cal.Weeks[1])
	assert.Equal(t, 0.0, cal.Weeks[3].PnL)
	assert.Equal(t, WeekPnL{Week: 6, Start: "2025-03-30", End: "2025-03-31", PnL: 7, Trades: 1}, cal.Weeks[5])
}

func TestBucketMonthlyEmpty(t *testing.T) {
	t.Parallel()

	// February 2026 starts on a Sunday and fills exactly four rows.
	cal := BucketMonthly(nil, 2026, time.February, time.UTC)
	assert.Len(t, cal.Weeks, 4)
	assert.Empty(t, cal.Days)
	assert.Equal(t, 0.0, cal.TotalPnL)
}

func TestBucketByMonth(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		at(2025, 4, 2, 12, 10),
		at(2025, 3, 2, 12, -20),
		at(2025, 3, 9, 12, 5),
	}
	assert.Equal(t, []MonthPnL{
		{Month: "2025-03", PnL: -15, Trades: 2},
		{Month: "2025-04", PnL: 10, Trades: 1},
	}, BucketByMonth(trades, time.UTC))
}

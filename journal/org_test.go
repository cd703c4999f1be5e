package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{
		ID:              12,
		Symbol:          "EURUSD",
		Direction:       Long,
		EntryPrice:      Float(1.085),
		ExitPrice:       Float(1.0875),
		LotSize:         1,
		PnL:             250,
		Status:          Closed,
		TradeDate:       time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC),
		Confluence:      Confluence{Weekly: 80, Daily: 70, H4: 60, H1: 50, Lower: 40},
		TotalConfluence: 60,
		Notes:           "trend-following",
	}

	result := FormatTradeOrg(trade)

	assert.True(t, strings.HasPrefix(result, "** Trade: EURUSD LONG (#12)\n"))

	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 12")
	assert.Contains(t, result, ":SYMBOL: EURUSD")
	assert.Contains(t, result, ":STATUS: CLOSED")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.08500")
	assert.Contains(t, result, ":EXIT_PRICE: 1.08750")
	assert.Contains(t, result, ":TRADE_DATE: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":PNL: 250.00")
	assert.Contains(t, result, ":CONFLUENCE: W80 D70 H4:60 H1:50 L40")
	assert.Contains(t, result, ":TOTAL_CONFLUENCE: 60")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "*** Thesis\n- trend-following")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgOpenTrade(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(TradeRecord{
		ID:        1,
		Symbol:    "USDJPY",
		Direction: Short,
		Status:    Open,
		TradeDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.FixedZone("JST", 9*3600)),
	})
	assert.Contains(t, result, ":ENTRY_PRICE: -")
	assert.Contains(t, result, ":EXIT_PRICE: -")
	assert.Contains(t, result, ":PNL: 0.00")
	assert.Contains(t, result, ":TRADE_DATE: 2024-03-14T15:00:00Z")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		{ID: 1, Symbol: "EURUSD", Direction: Long, Status: Open},
		{ID: 2, Symbol: "GBPUSD", Direction: Short, Status: Open},
	}
	result := FormatTradesOrg(trades)

	parts := strings.Split(result, "** Trade: ")
	require.Len(t, parts, 3)
	assert.Contains(t, parts[1], "EURUSD LONG (#1)")
	assert.Contains(t, parts[2], "GBPUSD SHORT (#2)")
	assert.Equal(t, "", FormatTradesOrg(nil))
}

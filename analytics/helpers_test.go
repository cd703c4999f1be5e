package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

var day0 = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func closedTrade(id int64, day int, pnl float64) journal.TradeRecord {
	return journal.TradeRecord{
		ID:        id,
		Symbol:    "EURUSD",
		Direction: journal.Long,
		LotSize:   1,
		PnL:       pnl,
		Status:    journal.Closed,
		TradeDate: day0.AddDate(0, 0, day),
	}
}

func openTrade(id int64, day int) journal.TradeRecord {
	return journal.TradeRecord{
		ID:        id,
		Symbol:    "GBPUSD",
		Direction: journal.Short,
		LotSize:   1,
		Status:    journal.Open,
		TradeDate: day0.AddDate(0, 0, day),
	}
}

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const selectTrade = `
	SELECT id, symbol, direction, entry_price, exit_price, lot_size, pnl, manual_pnl, status, trade_date,
	       conf_weekly, conf_daily, conf_h4, conf_h1, conf_lower, total_confluence, notes
	FROM trades`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (TradeRecord, error) {
	var (
		rec         TradeRecord
		entry, exit sql.NullFloat64
	)
	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&rec.Direction,
		&entry,
		&exit,
		&rec.LotSize,
		&rec.PnL,
		&rec.ManualPnL,
		&rec.Status,
		&rec.TradeDate,
		&rec.Confluence.Weekly,
		&rec.Confluence.Daily,
		&rec.Confluence.H4,
		&rec.Confluence.H1,
		&rec.Confluence.Lower,
		&rec.TotalConfluence,
		&rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	if entry.Valid {
		rec.EntryPrice = Float(entry.Float64)
	}
	if exit.Valid {
		rec.ExitPrice = Float(exit.Float64)
	}
	return rec, nil
}

// Get returns a single trade record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (TradeRecord, error) {
	rec, err := scanTrade(s.db.QueryRowContext(ctx, selectTrade+` WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// List returns every trade ordered by trade date, then ID.
func (s *SQLiteStore) List(ctx context.Context) ([]TradeRecord, error) {
	return s.query(ctx, selectTrade+` ORDER BY trade_date ASC, id ASC`)
}

// ListClosedBetween returns CLOSED trades whose trade_date is within [start, end).
// Dates are stored in UTC so the text comparison SQLite performs is ordered.
func (s *SQLiteStore) ListClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return s.query(ctx, selectTrade+`
		WHERE status = ? AND trade_date >= ? AND trade_date < ?
		ORDER BY trade_date ASC, id ASC`, Closed, start.UTC(), end.UTC())
}

// RangeLister is implemented by stores that filter by date themselves.
type RangeLister interface {
	ListClosedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error)
}

// ClosedBetween returns the CLOSED trades of s dated within [start, end),
// letting the store filter when it can.
func ClosedBetween(ctx context.Context, s Store, start, end time.Time) ([]TradeRecord, error) {
	if rl, ok := s.(RangeLister); ok {
		return rl.ListClosedBetween(ctx, start, end)
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []TradeRecord
	for _, t := range all {
		if t.IsClosed() && !t.TradeDate.Before(start) && t.TradeDate.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

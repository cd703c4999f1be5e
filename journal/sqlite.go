package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists trades in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	norm Normalizer
}

func NewSQLite(path string, norm Normalizer) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite serializes anyway and this avoids
	// SQLITE_BUSY under concurrent API requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, norm: norm}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, in TradeInput) (TradeRecord, error) {
	rec, err := s.norm.New(in)
	if err != nil {
		return TradeRecord{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		(symbol, direction, entry_price, exit_price, lot_size, pnl, manual_pnl, status, trade_date,
		 conf_weekly, conf_daily, conf_h4, conf_h1, conf_lower, total_confluence, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Symbol, rec.Direction, nullFloat(rec.EntryPrice), nullFloat(rec.ExitPrice),
		rec.LotSize, rec.PnL, rec.ManualPnL, rec.Status, rec.TradeDate.UTC(),
		rec.Confluence.Weekly, rec.Confluence.Daily, rec.Confluence.H4, rec.Confluence.H1,
		rec.Confluence.Lower, rec.TotalConfluence, rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// Update reads, patches and writes the record inside one transaction.
func (s *SQLiteStore) Update(ctx context.Context, id int64, patch TradeInput) (TradeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TradeRecord{}, err
	}
	defer tx.Rollback()

	cur, err := scanTrade(tx.QueryRowContext(ctx, selectTrade+` WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return TradeRecord{}, err
	}

	rec, err := s.norm.Apply(cur, patch)
	if err != nil {
		return TradeRecord{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, entry_price = ?, exit_price = ?, lot_size = ?,
			pnl = ?, manual_pnl = ?, status = ?,
			conf_weekly = ?, conf_daily = ?, conf_h4 = ?, conf_h1 = ?, conf_lower = ?,
			total_confluence = ?, notes = ?
		WHERE id = ?`,
		rec.Symbol, rec.Direction, nullFloat(rec.EntryPrice), nullFloat(rec.ExitPrice), rec.LotSize,
		rec.PnL, rec.ManualPnL, rec.Status,
		rec.Confluence.Weekly, rec.Confluence.Daily, rec.Confluence.H4, rec.Confluence.H1, rec.Confluence.Lower,
		rec.TotalConfluence, rec.Notes, id,
	)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("update trade: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

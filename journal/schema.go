// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL,
	exit_price REAL,
	lot_size REAL NOT NULL,
	pnl REAL NOT NULL,
	manual_pnl INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	trade_date DATETIME NOT NULL,
	conf_weekly INTEGER NOT NULL DEFAULT 0,
	conf_daily INTEGER NOT NULL DEFAULT 0,
	conf_h4 INTEGER NOT NULL DEFAULT 0,
	conf_h1 INTEGER NOT NULL DEFAULT 0,
	conf_lower INTEGER NOT NULL DEFAULT 0,
	total_confluence INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
`

// journal/journal.go
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidRecord is returned when a trade is missing a field that a
	// derivation depends on, or carries a value outside its domain.
	ErrInvalidRecord = errors.New("invalid trade record")
	ErrNotFound      = errors.New("trade not found")
	// ErrTradeClosed is returned when an update tries to move a CLOSED
	// trade back to OPEN.
	ErrTradeClosed = errors.New("trade is closed")
)

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection accepts LONG/SHORT as well as BUY/SELL in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY", "L":
		return Long, nil
	case "SHORT", "SELL", "S":
		return Short, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidRecord, s)
}

type Status string

const (
	Open   Status = "OPEN"
	Closed Status = "CLOSED"
)

func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return Open, nil
	case "CLOSED", "CLOSE":
		return Closed, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, s)
}

// Confluence holds the per-timeframe confidence scores, each in [0,100].
type Confluence struct {
	Weekly int `json:"weekly"`
	Daily  int `json:"daily"`
	H4     int `json:"h4"`
	H1     int `json:"h1"`
	Lower  int `json:"lower"`
}

// Clamp returns c with every score forced into [0,100].
func (c Confluence) Clamp() Confluence {
	return Confluence{
		Weekly: clampScore(c.Weekly),
		Daily:  clampScore(c.Daily),
		H4:     clampScore(c.H4),
		H1:     clampScore(c.H1),
		Lower:  clampScore(c.Lower),
	}
}

// Total is the rounded mean of the five scores.
func (c Confluence) Total() int {
	c = c.Clamp()
	sum := c.Weekly + c.Daily + c.H4 + c.H1 + c.Lower
	// Scores are non-negative after clamping, so (2*sum+5)/10 is round-half-up
	// which equals round-half-away-from-zero here.
	return (2*sum + 5) / 10
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// TradeRecord is a single journal entry.
type TradeRecord struct {
	ID              int64      `json:"id"`
	Symbol          string     `json:"symbol"`
	Direction       Direction  `json:"direction"`
	EntryPrice      *float64   `json:"entryPrice"`
	ExitPrice       *float64   `json:"exitPrice"`
	LotSize         float64    `json:"lotSize"`
	PnL             float64    `json:"pnl"`
	ManualPnL       bool       `json:"manualPnl"`
	Status          Status     `json:"status"`
	TradeDate       time.Time  `json:"tradeDate"`
	Confluence      Confluence `json:"confluence"`
	TotalConfluence int        `json:"totalConfluence"`
	Notes           string     `json:"notes,omitempty"`
}

func (t TradeRecord) IsClosed() bool { return t.Status == Closed }
func (t TradeRecord) IsOpen() bool   { return t.Status == Open }

// clone copies the pointer fields so callers cannot reach into a store's
// internal state through a returned record.
func (t TradeRecord) clone() TradeRecord {
	t.EntryPrice = copyFloat(t.EntryPrice)
	t.ExitPrice = copyFloat(t.ExitPrice)
	return t
}

// ConfluenceInput carries optional per-timeframe scores.
type ConfluenceInput struct {
	Weekly *int `json:"weekly,omitempty"`
	Daily  *int `json:"daily,omitempty"`
	H4     *int `json:"h4,omitempty"`
	H1     *int `json:"h1,omitempty"`
	Lower  *int `json:"lower,omitempty"`
}

// TradeInput is a partial TradeRecord used for creation and for updates.
// A nil field means "not supplied".
type TradeInput struct {
	Symbol     *string          `json:"symbol,omitempty"`
	Direction  *Direction       `json:"direction,omitempty"`
	EntryPrice *float64         `json:"entryPrice,omitempty"`
	ExitPrice  *float64         `json:"exitPrice,omitempty"`
	LotSize    *float64         `json:"lotSize,omitempty"`
	PnL        *float64         `json:"pnl,omitempty"`
	Status     *Status          `json:"status,omitempty"`
	TradeDate  *time.Time       `json:"tradeDate,omitempty"`
	Confluence *ConfluenceInput `json:"confluence,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

// Store is the repository the API, importer and reports work against.
// Implementations own their concurrency control.
type Store interface {
	List(ctx context.Context) ([]TradeRecord, error)
	Get(ctx context.Context, id int64) (TradeRecord, error)
	Create(ctx context.Context, in TradeInput) (TradeRecord, error)
	Update(ctx context.Context, id int64, patch TradeInput) (TradeRecord, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v; handy for building inputs.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

package journal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalizer turns TradeInputs into consistent TradeRecords. It is the only
// place PnL, exit price, status and total confluence are derived, so every
// creation path (API, CSV import, CLI) produces the same record.
type Normalizer struct {
	// ContractSize multiplies price distance × lot size into account
	// currency. Zero means 1.
	ContractSize float64
	// ContractSizes overrides ContractSize per symbol, e.g. 100 for XAUUSD
	// while FX pairs use the account default. Keys are upper-case.
	ContractSizes map[string]float64
	// Clock stamps TradeDate on creation. Nil means time.Now.
	Clock func() time.Time
}

func (n Normalizer) now() time.Time {
	if n.Clock == nil {
		return time.Now()
	}
	return n.Clock()
}

func (n Normalizer) contract() decimal.Decimal {
	if n.ContractSize <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(n.ContractSize)
}

// ForSymbol returns n with ContractSize resolved for symbol.
func (n Normalizer) ForSymbol(symbol string) Normalizer {
	if cs, ok := n.ContractSizes[strings.ToUpper(strings.TrimSpace(symbol))]; ok && cs > 0 {
		n.ContractSize = cs
	}
	return n
}

// DerivePnL computes the PnL of a trade from its prices.
func (n Normalizer) DerivePnL(dir Direction, entry, exit, lot float64) float64 {
	move := decimal.NewFromFloat(exit).Sub(decimal.NewFromFloat(entry))
	if dir == Short {
		move = move.Neg()
	}
	pnl, _ := move.Mul(decimal.NewFromFloat(lot)).Mul(n.contract()).Float64()
	return pnl
}

// deriveExit inverts DerivePnL for a trade closed with a known PnL.
func (n Normalizer) deriveExit(dir Direction, entry, pnl, lot float64) float64 {
	move := decimal.NewFromFloat(pnl).Div(decimal.NewFromFloat(lot).Mul(n.contract()))
	if dir == Short {
		move = move.Neg()
	}
	exit, _ := decimal.NewFromFloat(entry).Add(move).Float64()
	return exit
}

// New builds a fresh record from in. The ID is left for the store to assign.
func (n Normalizer) New(in TradeInput) (TradeRecord, error) {
	rec := TradeRecord{
		Direction: Long,
		LotSize:   1,
		TradeDate: n.now(),
	}
	if in.TradeDate != nil && !in.TradeDate.IsZero() {
		rec.TradeDate = *in.TradeDate
	}
	changed := merge(&rec, in)
	if err := n.resolve(&rec, in, changed); err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// Apply merges patch into rec and re-derives dependent fields. ID and
// TradeDate never change. Supplying an exit price closes an OPEN trade;
// asking a CLOSED trade to be OPEN fails with ErrTradeClosed.
func (n Normalizer) Apply(rec TradeRecord, patch TradeInput) (TradeRecord, error) {
	if rec.IsClosed() && patch.Status != nil {
		if s, err := ParseStatus(string(*patch.Status)); err == nil && s == Open {
			return TradeRecord{}, fmt.Errorf("%w: trade %d cannot be reopened", ErrTradeClosed, rec.ID)
		}
	}

	out := rec.clone()
	changed := merge(&out, patch)
	if err := n.resolve(&out, patch, changed); err != nil {
		return TradeRecord{}, err
	}
	out.ID = rec.ID
	out.TradeDate = rec.TradeDate
	return out, nil
}

// merge copies supplied fields into rec and reports whether any field the
// PnL derivation depends on was touched.
func merge(rec *TradeRecord, in TradeInput) bool {
	changed := false
	if in.Symbol != nil {
		rec.Symbol = strings.ToUpper(strings.TrimSpace(*in.Symbol))
	}
	if in.Direction != nil {
		rec.Direction = *in.Direction
		changed = true
	}
	if in.EntryPrice != nil {
		rec.EntryPrice = copyFloat(in.EntryPrice)
		changed = true
	}
	if in.ExitPrice != nil {
		rec.ExitPrice = copyFloat(in.ExitPrice)
		changed = true
	}
	if in.LotSize != nil {
		rec.LotSize = *in.LotSize
		changed = true
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if c := in.Confluence; c != nil {
		setScore(&rec.Confluence.Weekly, c.Weekly)
		setScore(&rec.Confluence.Daily, c.Daily)
		setScore(&rec.Confluence.H4, c.H4)
		setScore(&rec.Confluence.H1, c.H1)
		setScore(&rec.Confluence.Lower, c.Lower)
	}
	return changed
}

func setScore(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func (n Normalizer) resolve(rec *TradeRecord, in TradeInput, pricesChanged bool) error {
	if rec.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidRecord)
	}
	n = n.ForSymbol(rec.Symbol)
	for _, v := range []struct {
		name string
		p    *float64
	}{
		{"entry price", rec.EntryPrice},
		{"exit price", rec.ExitPrice},
		{"lot size", &rec.LotSize},
		{"pnl", in.PnL},
	} {
		if v.p != nil && !finite(*v.p) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidRecord, v.name)
		}
	}
	if rec.Direction == "" {
		rec.Direction = Long
	}
	d, err := ParseDirection(string(rec.Direction))
	if err != nil {
		return err
	}
	rec.Direction = d
	if rec.LotSize <= 0 {
		return fmt.Errorf("%w: lot size must be positive", ErrInvalidRecord)
	}
	if rec.EntryPrice != nil && *rec.EntryPrice <= 0 {
		return fmt.Errorf("%w: entry price must be positive", ErrInvalidRecord)
	}
	if rec.ExitPrice != nil && *rec.ExitPrice <= 0 {
		return fmt.Errorf("%w: exit price must be positive", ErrInvalidRecord)
	}

	rec.Confluence = rec.Confluence.Clamp()
	rec.TotalConfluence = rec.Confluence.Total()

	if in.PnL != nil {
		rec.PnL = *in.PnL
		rec.ManualPnL = true
	} else if pricesChanged {
		rec.ManualPnL = false
	}

	var want Status
	if in.Status != nil {
		if want, err = ParseStatus(string(*in.Status)); err != nil {
			return err
		}
	}
	// A PnL supplied without an exit price closes the trade.
	if in.PnL != nil && rec.ExitPrice == nil {
		if want == Open {
			return fmt.Errorf("%w: open trade cannot carry a pnl", ErrInvalidRecord)
		}
		want = Closed
	}
	wantClosed := want == Closed
	if rec.ExitPrice == nil && wantClosed && rec.ManualPnL && rec.EntryPrice != nil {
		exit := n.deriveExit(rec.Direction, *rec.EntryPrice, rec.PnL, rec.LotSize)
		if !finite(exit) || exit <= 0 {
			return fmt.Errorf("%w: pnl implies a non-positive exit price", ErrInvalidRecord)
		}
		rec.ExitPrice = Float(exit)
	}

	if rec.ExitPrice == nil {
		if wantClosed {
			return fmt.Errorf("%w: closed trade requires an exit price", ErrInvalidRecord)
		}
		rec.Status = Open
		rec.PnL = 0
		rec.ManualPnL = false
		return nil
	}

	if !rec.ManualPnL {
		if rec.EntryPrice == nil {
			return fmt.Errorf("%w: entry price required to derive pnl", ErrInvalidRecord)
		}
		rec.PnL = n.DerivePnL(rec.Direction, *rec.EntryPrice, *rec.ExitPrice, rec.LotSize)
		if !finite(rec.PnL) {
			return fmt.Errorf("%w: derived pnl overflows", ErrInvalidRecord)
		}
	}
	if want == Open {
		return fmt.Errorf("%w: open trade cannot carry an exit price", ErrInvalidRecord)
	}
	rec.Status = Closed
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

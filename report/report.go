// Package report renders analytics summaries as terminal tables, Org-mode
// documents and Excel workbooks.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Meta describes one report run.
type Meta struct {
	RunID    string
	Title    string
	Currency string
	Created  time.Time
	// Period is a free-form label such as "2025-03" or "all time".
	Period string
}

// NewMeta stamps a fresh run ID and creation time.
func NewMeta(title, currency, period string) Meta {
	now := time.Now()
	return Meta{
		RunID:    id.At(now),
		Title:    title,
		Currency: currency,
		Created:  now,
		Period:   period,
	}
}

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatOrg  Format = "org"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts text, org and xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatOrg, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Ext is the file extension for f, with the dot.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// WriteFile renders s to path in format f.
func WriteFile(path string, f Format, s analytics.Summary, trades []journal.TradeRecord, meta Meta) error {
	if f == FormatXLSX {
		return WriteXLSX(path, s, trades, meta)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	switch f {
	case FormatText:
		err = WriteText(out, s, meta)
	case FormatOrg:
		err = WriteOrg(out, s, meta)
	default:
		err = fmt.Errorf("unknown report format %q", f)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

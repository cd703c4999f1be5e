// journal/csv.go
package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/sirupsen/logrus"
)

// Field is a TradeRecord attribute a CSV column can feed.
type Field int

const (
	FieldSymbol Field = iota
	FieldDirection
	FieldEntry
	FieldExit
	FieldLot
	FieldPnL
	FieldStatus
	FieldDate
	FieldWeekly
	FieldDaily
	FieldH4
	FieldH1
	FieldLower
	FieldNotes
)

var fieldNames = map[Field]string{
	FieldSymbol:    "symbol",
	FieldDirection: "direction",
	FieldEntry:     "entry",
	FieldExit:      "exit",
	FieldLot:       "lot",
	FieldPnL:       "pnl",
	FieldStatus:    "status",
	FieldDate:      "date",
	FieldWeekly:    "weekly",
	FieldDaily:     "daily",
	FieldH4:        "h4",
	FieldH1:        "h1",
	FieldLower:     "lower",
	FieldNotes:     "notes",
}

// Header aliases, already in normalized form (see normHeader).
var fieldAliases = map[Field][]string{
	FieldSymbol:    {"symbol", "pair", "instrument", "ticker", "market"},
	FieldDirection: {"direction", "side", "type", "position"},
	FieldEntry:     {"entry", "entryprice", "openprice", "open", "priceopen"},
	FieldExit:      {"exit", "exitprice", "closeprice", "close", "priceclose"},
	FieldLot:       {"lot", "lots", "lotsize", "size", "volume", "units", "quantity", "qty"},
	FieldPnL:       {"pnl", "profit", "profitloss", "pl", "netpl", "realizedpl"},
	FieldStatus:    {"status", "state"},
	FieldDate:      {"date", "tradedate", "opentime", "time", "datetime"},
	FieldWeekly:    {"weekly", "w1", "weeklyconfluence"},
	FieldDaily:     {"daily", "d1", "dailyconfluence"},
	FieldH4:        {"h4", "4h", "h4confluence"},
	FieldH1:        {"h1", "1h", "h1confluence"},
	FieldLower:     {"lower", "ltf", "lowerconfluence", "lowertimeframe"},
	FieldNotes:     {"notes", "note", "comment", "comments"},
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField resolves a field by its name or any of its aliases.
func ParseField(s string) (Field, error) {
	key := normHeader(s)
	for f, aliases := range fieldAliases {
		for _, a := range aliases {
			if a == key {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// ColumnMap assigns header names to fields. It overrides detection.
type ColumnMap map[Field]string

// DetectColumns resolves each field to a column index. Explicit mappings win;
// remaining fields are matched by alias. A symbol column is required.
func DetectColumns(header []string, explicit ColumnMap) (map[Field]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := normHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	cols := make(map[Field]int)
	for f, name := range explicit {
		i, ok := idx[normHeader(name)]
		if !ok {
			return nil, fmt.Errorf("mapped column %q for %s not in header", name, f)
		}
		cols[f] = i
	}

	for f, aliases := range fieldAliases {
		if _, ok := cols[f]; ok {
			continue
		}
		for _, a := range aliases {
			if i, ok := idx[a]; ok {
				cols[f] = i
				break
			}
		}
	}

	if _, ok := cols[FieldSymbol]; !ok {
		return nil, fmt.Errorf("%w: no symbol column in header", ErrInvalidRecord)
	}
	return cols, nil
}

func normHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "", "_", "", "-", "", "/", "", ".", "")
	return r.Replace(s)
}

// RowError records why a single CSV row was rejected.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

type ImportResult struct {
	BatchID  string        `json:"batchId"`
	Rows     int           `json:"rows"`
	Imported int           `json:"imported"`
	Failed   []RowError    `json:"failed"`
	Trades   []TradeRecord `json:"trades"`
}

// Importer feeds CSV rows through Store.Create one at a time.
type Importer struct {
	Store    Store
	Columns  ColumnMap
	Location *time.Location
	Log      logrus.FieldLogger
}

// Import reads every row of r. A bad row is recorded in the result and the
// batch continues; only an unreadable header aborts.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	res := ImportResult{BatchID: id.New(), Failed: []RowError{}}
	log := im.logger().WithField("batch", res.BatchID)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols, err := DetectColumns(header, im.Columns)
	if err != nil {
		return res, err
	}

	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Rows++
		if err != nil {
			res.Failed = append(res.Failed, RowError{Row: row, Err: err.Error()})
			continue
		}
		if blank(rec) {
			res.Rows--
			continue
		}

		in, err := im.rowInput(rec, cols)
		if err == nil {
			var t TradeRecord
			if t, err = im.Store.Create(ctx, in); err == nil {
				res.Imported++
				res.Trades = append(res.Trades, t)
				continue
			}
		}
		log.WithFields(logrus.Fields{"row": row, "error": err}).Warn("import row rejected")
		res.Failed = append(res.Failed, RowError{Row: row, Err: err.Error()})
	}

	log.WithFields(logrus.Fields{
		"rows":     res.Rows,
		"imported": res.Imported,
		"failed":   len(res.Failed),
	}).Info("csv import finished")
	return res, nil
}

func (im *Importer) logger() logrus.FieldLogger {
	if im.Log == nil {
		return logrus.StandardLogger()
	}
	return im.Log
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (im *Importer) rowInput(rec []string, cols map[Field]int) (TradeInput, error) {
	cell := func(f Field) string {
		i, ok := cols[f]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var in TradeInput
	var err error

	if v := cell(FieldSymbol); v != "" {
		in.Symbol = String(v)
	}
	if v := cell(FieldDirection); v != "" {
		d, err := ParseDirection(v)
		if err != nil {
			return in, err
		}
		in.Direction = &d
	}
	if v := cell(FieldStatus); v != "" {
		s, err := ParseStatus(v)
		if err != nil {
			return in, err
		}
		in.Status = &s
	}
	if v := cell(FieldNotes); v != "" {
		in.Notes = String(v)
	}

	for _, num := range []struct {
		f   Field
		dst **float64
	}{
		{FieldEntry, &in.EntryPrice},
		{FieldExit, &in.ExitPrice},
		{FieldLot, &in.LotSize},
		{FieldPnL, &in.PnL},
	} {
		if *num.dst, err = parseNumber(cell(num.f)); err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, num.f, err)
		}
	}

	var conf ConfluenceInput
	scored := false
	for _, sc := range []struct {
		f   Field
		dst **int
	}{
		{FieldWeekly, &conf.Weekly},
		{FieldDaily, &conf.Daily},
		{FieldH4, &conf.H4},
		{FieldH1, &conf.H1},
		{FieldLower, &conf.Lower},
	} {
		v, err := parseNumber(cell(sc.f))
		if err != nil {
			return in, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, sc.f, err)
		}
		if v != nil {
			*sc.dst = Int(int(math.Round(*v)))
			scored = true
		}
	}
	if scored {
		in.Confluence = &conf
	}

	if v := cell(FieldDate); v != "" {
		t, err := parseDate(v, im.Location)
		if err != nil {
			return in, fmt.Errorf("%w: date: %v", ErrInvalidRecord, err)
		}
		in.TradeDate = &t
	}
	return in, nil
}

func parseNumber(s string) (*float64, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%q is not a finite number", s)
	}
	return &v, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// CSVHeader is the column set WriteCSV emits. Every column is recognised by
// DetectColumns, so exported files import back unchanged.
var CSVHeader = []string{
	"id", "symbol", "direction", "entry_price", "exit_price", "lot_size", "pnl", "status",
	"trade_date", "weekly", "daily", "h4", "h1", "lower", "total_confluence", "notes",
}

// WriteCSV writes trades with CSVHeader. PnL is only written when it was
// entered by hand; derived PnL is recomputed on import.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	sorted := append([]TradeRecord(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, t := range sorted {
		pnl := ""
		if t.ManualPnL {
			pnl = f(t.PnL)
		}
		err := cw.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Symbol,
			string(t.Direction),
			fp(t.EntryPrice),
			fp(t.ExitPrice),
			f(t.LotSize),
			pnl,
			string(t.Status),
			t.TradeDate.Format(time.RFC3339),
			strconv.Itoa(t.Confluence.Weekly),
			strconv.Itoa(t.Confluence.Daily),
			strconv.Itoa(t.Confluence.H4),
			strconv.Itoa(t.Confluence.H1),
			strconv.Itoa(t.Confluence.Lower),
			strconv.Itoa(t.TotalConfluence),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fp(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

package journal

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectColumnsAliases(t *testing.T) {
	t.Parallel()

	header := []string{"Pair", "Side", "Open Price", "Close Price", "Lots", "Profit", "Open Time", "W1", "4H", "Comment"}
	cols, err := DetectColumns(header, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, cols[FieldSymbol])
	assert.Equal(t, 1, cols[FieldDirection])
	assert.Equal(t, 2, cols[FieldEntry])
	assert.Equal(t, 3, cols[FieldExit])
	assert.Equal(t, 4, cols[FieldLot])
	assert.Equal(t, 5, cols[FieldPnL])
	assert.Equal(t, 6, cols[FieldDate])
	assert.Equal(t, 7, cols[FieldWeekly])
	assert.Equal(t, 8, cols[FieldH4])
	assert.Equal(t, 9, cols[FieldNotes])
	_, ok := cols[FieldStatus]
	assert.False(t, ok)
}

func TestDetectColumnsExplicit(t *testing.T) {
	t.Parallel()

	header := []string{"asset", "symbol", "px_in"}
	cols, err := DetectColumns(header, ColumnMap{FieldSymbol: "asset", FieldEntry: "PX_IN"})
	require.NoError(t, err)
	assert.Equal(t, 0, cols[FieldSymbol])
	assert.Equal(t, 2, cols[FieldEntry])

	_, err = DetectColumns(header, ColumnMap{FieldExit: "px_out"})
	assert.Error(t, err)
}

func TestDetectColumnsNeedsSymbol(t *testing.T) {
	t.Parallel()

	_, err := DetectColumns([]string{"entry", "exit"}, nil)
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestParseField(t *testing.T) {
	t.Parallel()

	f, err := ParseField("Entry Price")
	require.NoError(t, err)
	assert.Equal(t, FieldEntry, f)
	assert.Equal(t, "entry", f.String())

	_, err = ParseField("swap")
	assert.Error(t, err)
}

func TestImporterImport(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		"Symbol,Direction,Entry,Exit,Lot Size,P/L,Date,Notes",
		"eurusd,buy,1.0850,1.0920,0.1,,2025-03-03 09:00,breakout",
		"GBPUSD,SELL,1.2700,,1,,2025-03-04,",
		",LONG,1,2,1,,2025-03-05,no symbol",
		",,,,,,,",
		"XAUUSD,short,\"2,400.50\",2390,0.5,$12.00,03/06/2025,",
		"USDJPY,LONG,abc,150,1,,2025-03-07,",
	}, "\n")

	store := NewMemoryStore(testNormalizer())
	im := &Importer{Store: store, Location: time.UTC}
	res, err := im.Import(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	assert.Len(t, res.BatchID, 26)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 3, res.Imported)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 4, res.Failed[0].Row)
	assert.Equal(t, 7, res.Failed[1].Row)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "EURUSD", all[0].Symbol)
	assert.Equal(t, Closed, all[0].Status)
	assert.InDelta(t, 0.0007, all[0].PnL, 1e-9)
	assert.Equal(t, "breakout", all[0].Notes)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), all[0].TradeDate)

	assert.Equal(t, Short, all[1].Direction)
	assert.Equal(t, Open, all[1].Status)

	assert.InDelta(t, 2400.50, *all[2].EntryPrice, 1e-9)
	assert.Equal(t, 12.0, all[2].PnL)
	assert.True(t, all[2].ManualPnL)
}

func TestImporterRejectsNonFiniteNumbers(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		"symbol,entry,exit,lot,pnl,status",
		"EURUSD,1.1,1.2,1,,",
		"EURUSD,NaN,1.2,1,,",
		"EURUSD,1.1,,1,Inf,closed",
		"EURUSD,1.1,1.2,-Infinity,,",
		"GBPUSD,1.3,1.25,1,,",
	}, "\n")

	store := NewMemoryStore(testNormalizer())
	im := &Importer{Store: store, Location: time.UTC}
	res, err := im.Import(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Failed, 3)
	for i, row := range []int{3, 4, 5} {
		assert.Equal(t, row, res.Failed[i].Row)
		assert.Contains(t, res.Failed[i].Err, "finite")
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	v, err := parseNumber("$1,234.50")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, *v)

	v, err = parseNumber("  ")
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, s := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity"} {
		_, err := parseNumber(s)
		assert.Error(t, err, s)
	}
}

func TestImporterBadHeader(t *testing.T) {
	t.Parallel()

	im := &Importer{Store: NewMemoryStore(testNormalizer())}
	_, err := im.Import(context.Background(), strings.NewReader(""))
	assert.Error(t, err)

	_, err = im.Import(context.Background(), strings.NewReader("foo,bar\n1,2\n"))
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestWriteCSVHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	header, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, CSVHeader, header)
}

func TestWriteCSVRow(t *testing.T) {
	t.Parallel()

	rec := TradeRecord{
		ID:              3,
		Symbol:          "EURUSD",
		Direction:       Long,
		EntryPrice:      Float(1.085),
		LotSize:         0.1,
		PnL:             0,
		Status:          Open,
		TradeDate:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Confluence:      Confluence{Weekly: 80, Daily: 70, H4: 60, H1: 50, Lower: 40},
		TotalConfluence: 60,
		Notes:           "wait, then enter",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []TradeRecord{rec}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"3", "EURUSD", "LONG", "1.085", "", "0.1", "", "OPEN",
		"2024-01-02T03:04:05Z", "80", "70", "60", "50", "40", "60", "wait, then enter",
	}, rows[1])
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := NewMemoryStore(testNormalizer())
	inputs := []TradeInput{
		{Symbol: String("EURUSD"), EntryPrice: Float(1.085), ExitPrice: Float(1.092), LotSize: Float(0.1), TradeDate: at(2, 9)},
		{Symbol: String("XAUUSD"), Direction: dirPtr(Short), EntryPrice: Float(2400), PnL: Float(-35.5), Status: statusPtr(Closed), TradeDate: at(3, 9)},
		{Symbol: String("NAS100"), EntryPrice: Float(18000), TradeDate: at(4, 9), Notes: String("runner, \"trail\"")},
		{Symbol: String("GBPJPY"), TradeDate: at(5, 9), Confluence: &ConfluenceInput{Weekly: Int(90), H1: Int(45)}},
	}
	for _, in := range inputs {
		_, err := src.Create(ctx, in)
		require.NoError(t, err)
	}
	want, err := src.List(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, want))

	dst := NewMemoryStore(testNormalizer())
	res, err := (&Importer{Store: dst, Location: time.UTC}).Import(ctx, &buf)
	require.NoError(t, err)
	assert.Empty(t, res.Failed)

	got, err := dst.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		g.ID = w.ID
		assert.True(t, w.TradeDate.Equal(g.TradeDate))
		g.TradeDate = w.TradeDate
		if w.ExitPrice != nil {
			require.NotNil(t, g.ExitPrice)
			assert.InDelta(t, *w.ExitPrice, *g.ExitPrice, 1e-9)
			g.ExitPrice = w.ExitPrice
		}
		assert.InDelta(t, w.PnL, g.PnL, 1e-9)
		g.PnL = w.PnL
		assert.Equal(t, w, g)
	}
}

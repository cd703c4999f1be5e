package analytics

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

const dayLayout = "2006-01-02"

// DailyPnL is the summed PnL of the closed trades on one calendar date.
type DailyPnL struct {
	Date   string  `json:"date"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

func localDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// BucketDailyPnL groups CLOSED trades by calendar date in loc (time.Local
// when nil). Dates without trades are omitted; output is date ascending.
func BucketDailyPnL(trades []journal.TradeRecord, loc *time.Location) []DailyPnL {
	byDay := map[string]*DailyPnL{}
	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		key := localDate(t.TradeDate, loc).Format(dayLayout)
		d, ok := byDay[key]
		if !ok {
			d = &DailyPnL{Date: key}
			byDay[key] = d
		}
		d.PnL += t.PnL
		d.Trades++
	}

	out := make([]DailyPnL, 0, len(byDay))
	for _, d := range byDay {
		d.PnL = round2(d.PnL)
		out = append(out, *d)
	}
	// ISO dates sort lexically.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeekPnL is one row of a Sunday-first month calendar.
type WeekPnL struct {
	Week   int     `json:"week"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// MonthlyCalendar is the heatmap view of a single month. Days is sparse;
// Weeks has one row per calendar week touching the month, including empty
// ones, clipped to the month's first and last day.
type MonthlyCalendar struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Days     []DailyPnL `json:"days"`
	Weeks    []WeekPnL  `json:"weeks"`
	TotalPnL float64    `json:"totalPnl"`
	Trades   int        `json:"trades"`
}

// DayPnL returns the PnL for a day of the month, 0 when nothing traded.
func (m MonthlyCalendar) DayPnL(day int) float64 {
	key := time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC).Format(dayLayout)
	for _, d := range m.Days {
		if d.Date == key {
			return d.PnL
		}
	}
	return 0
}

func BucketMonthly(trades []journal.TradeRecord, year int, month time.Month, loc *time.Location) MonthlyCalendar {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	lead := int(first.Weekday())

	cal := MonthlyCalendar{Year: year, Month: month, Days: []DailyPnL{}}

	nweeks := (lead+last.Day()-1)/7 + 1
	weekSum := make([]float64, nweeks)
	for w := 0; w < nweeks; w++ {
		startDay := w*7 - lead + 1
		if startDay < 1 {
			startDay = 1
		}
		endDay := w*7 - lead + 7
		if endDay > last.Day() {
			endDay = last.Day()
		}
		cal.Weeks = append(cal.Weeks, WeekPnL{
			Week:  w + 1,
			Start: time.Date(year, month, startDay, 0, 0, 0, 0, loc).Format(dayLayout),
			End:   time.Date(year, month, endDay, 0, 0, 0, 0, loc).Format(dayLayout),
		})
	}

	var total float64
	for _, d := range BucketDailyPnL(trades, loc) {
		day, err := time.ParseInLocation(dayLayout, d.Date, loc)
		if err != nil || day.Year() != year || day.Month() != month {
			continue
		}
		cal.Days = append(cal.Days, d)
		w := (lead + day.Day() - 1) / 7
		weekSum[w] += d.PnL
		cal.Weeks[w].Trades += d.Trades
		cal.Trades += d.Trades
		total += d.PnL
	}
	for w := range cal.Weeks {
		cal.Weeks[w].PnL = round2(weekSum[w])
	}
	cal.TotalPnL = round2(total)
	return cal
}

// MonthPnL is the summed PnL of one calendar month ("YYYY-MM").
type MonthPnL struct {
	Month  string  `json:"month"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// BucketByMonth groups CLOSED trades by calendar month, ascending, sparse.
func BucketByMonth(trades []journal.TradeRecord, loc *time.Location) []MonthPnL {
	byMonth := map[string]*MonthPnL{}
	for _, d := range BucketDailyPnL(trades, loc) {
		key := d.Date[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &MonthPnL{Month: key}
			byMonth[key] = m
		}
		m.PnL += d.PnL
		m.Trades += d.Trades
	}

	out := make([]MonthPnL, 0, len(byMonth))
	for _, m := range byMonth {
		m.PnL = round2(m.PnL)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

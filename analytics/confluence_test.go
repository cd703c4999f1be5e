package analytics

import (
	"testing"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/stretchr/testify/assert"
)

func TestScoreConfluence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   journal.Confluence
		want int
	}{
		{"zero", journal.Confluence{}, 0},
		{"exact", journal.Confluence{Weekly: 80, Daily: 70, H4: 60, H1: 50, Lower: 40}, 60},
		{"rounds up", journal.Confluence{Weekly: 1, Daily: 1, H4: 1, H1: 0, Lower: 0}, 1},
		{"rounds down", journal.Confluence{Weekly: 1, Daily: 1, H4: 0, H1: 0, Lower: 0}, 0},
		{"clamped", journal.Confluence{Weekly: 150, Daily: -20, H4: 100, H1: 100, Lower: 100}, 80},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScoreConfluence(tc.in))
		})
	}
}

func TestConfluenceLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LabelHigh, ConfluenceLabel(70))
	assert.Equal(t, LabelHigh, ConfluenceLabel(100))
	assert.Equal(t, LabelMedium, ConfluenceLabel(69))
	assert.Equal(t, LabelMedium, ConfluenceLabel(40))
	assert.Equal(t, LabelLow, ConfluenceLabel(39))
	assert.Equal(t, LabelLow, ConfluenceLabel(0))
}

func TestAverageConfluenceOpenOnly(t *testing.T) {
	t.Parallel()

	a := openTrade(1, 0)
	a.Confluence = journal.Confluence{Weekly: 90, Daily: 80, H4: 70, H1: 60, Lower: 50}
	b := openTrade(2, 1)
	b.Confluence = journal.Confluence{Weekly: 81, Daily: 60, H4: 50, H1: 40, Lower: 30}
	c := closedTrade(3, 2, 10)
	c.Confluence = journal.Confluence{Weekly: 0, Daily: 0, H4: 0, H1: 0, Lower: 0}

	sum := AverageConfluence([]journal.TradeRecord{a, b, c}, OpenOnly)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, 86, sum.Weekly) // 85.5 rounds up
	assert.Equal(t, 70, sum.Daily)
	assert.Equal(t, 60, sum.H4)
	assert.Equal(t, 50, sum.H1)
	assert.Equal(t, 40, sum.Lower)
	assert.Equal(t, 61, sum.Total)
	assert.Equal(t, LabelMedium, sum.Label)

	all := AverageConfluence([]journal.TradeRecord{a, b, c}, nil)
	assert.Equal(t, 3, all.Count)
}

func TestAverageConfluenceEmpty(t *testing.T) {
	t.Parallel()

	sum := AverageConfluence(nil, OpenOnly)
	assert.Equal(t, ConfluenceSummary{Label: LabelLow}, sum)
}

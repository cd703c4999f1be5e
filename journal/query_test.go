package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	mk := func(d *time.Time, closed bool) {
		in := TradeInput{Symbol: String("EURUSD"), EntryPrice: Float(1.1), TradeDate: d}
		if closed {
			in.ExitPrice = Float(1.2)
		}
		_, err := j.Create(ctx, in)
		require.NoError(t, err)
	}
	mk(at(2, 23), true)
	mk(at(3, 0), true)
	mk(at(3, 12), false)
	mk(at(3, 23), true)
	mk(at(4, 0), true)

	start := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	got, err := j.ListClosedBetween(ctx, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)
}

func TestListClosedBetweenConvertsZones(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	// 01:00 UTC on the 4th is the evening of the 3rd in New York.
	_, err := j.Create(ctx, TradeInput{Symbol: String("US30"), EntryPrice: Float(1), ExitPrice: Float(2), TradeDate: at(4, 1)})
	require.NoError(t, err)

	ny := time.FixedZone("EDT", -4*3600)
	start := time.Date(2025, 6, 3, 0, 0, 0, 0, ny)
	got, err := j.ListClosedBetween(ctx, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.Get(context.Background(), 12345)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClosedBetweenMemoryFallback(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(testNormalizer())
	ctx := context.Background()
	for _, d := range []*time.Time{at(2, 23), at(3, 5), at(4, 0)} {
		_, err := s.Create(ctx, TradeInput{Symbol: String("EURUSD"), EntryPrice: Float(1), ExitPrice: Float(2), TradeDate: d})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, TradeInput{Symbol: String("EURUSD"), TradeDate: at(3, 6)})
	require.NoError(t, err)

	start := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	got, err := ClosedBetween(ctx, s, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestClosedBetweenUsesStoreQuery(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	var _ RangeLister = j

	got, err := ClosedBetween(context.Background(), j, time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}

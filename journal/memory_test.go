package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(testNormalizer())
	ctx := context.Background()

	rec, err := s.Create(ctx, TradeInput{Symbol: String("EURUSD"), EntryPrice: Float(1.1)})
	require.NoError(t, err)

	*rec.EntryPrice = 99
	rec.Symbol = "HACKED"

	all, err := s.List(ctx)
	require.NoError(t, err)
	all[0].Notes = "changed"
	*all[0].EntryPrice = 42

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", got.Symbol)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, 1.1, *got.EntryPrice)
}

func TestMemoryStoreIDsNotReused(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(testNormalizer())
	ctx := context.Background()

	a, err := s.Create(ctx, TradeInput{Symbol: String("A")})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, a.ID))

	b, err := s.Create(ctx, TradeInput{Symbol: String("B")})
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID)
}

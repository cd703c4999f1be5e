package journal

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps trades in a process-local slice. All mutations happen
// under a single write lock.
type MemoryStore struct {
	norm Normalizer

	mu     sync.RWMutex
	nextID int64
	trades []TradeRecord
}

func NewMemoryStore(norm Normalizer) *MemoryStore {
	return &MemoryStore{norm: norm, nextID: 1}
}

func (s *MemoryStore) List(ctx context.Context) ([]TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TradeRecord, len(s.trades))
	for i, t := range s.trades {
		out[i] = t.clone()
	}
	sortTrades(out)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return TradeRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.trades[i].clone(), nil
}

func (s *MemoryStore) Create(ctx context.Context, in TradeInput) (TradeRecord, error) {
	rec, err := s.norm.New(in)
	if err != nil {
		return TradeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.trades = append(s.trades, rec)
	return rec.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, patch TradeInput) (TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return TradeRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	rec, err := s.norm.Apply(s.trades[i], patch)
	if err != nil {
		return TradeRecord{}, err
	}
	s.trades[i] = rec
	return rec.clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.trades = append(s.trades[:i], s.trades[i+1:]...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) index(id int64) int {
	for i := range s.trades {
		if s.trades[i].ID == id {
			return i
		}
	}
	return -1
}

// sortTrades orders by trade date, then ID.
func sortTrades(trades []TradeRecord) {
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].TradeDate.Equal(trades[j].TradeDate) {
			return trades[i].TradeDate.Before(trades[j].TradeDate)
		}
		return trades[i].ID < trades[j].ID
	})
}

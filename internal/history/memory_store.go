package history

import (
	"context"
	"sync"

	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// MemoryStore keeps history in process memory only. Used in tests and as
// the fallback when no durable backend is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items []types.HistoryItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]types.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]types.HistoryItem(nil), s.items...)
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, item types.HistoryItem) ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = merge(s.items, item)
	return append([]types.HistoryItem(nil), s.items...), nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

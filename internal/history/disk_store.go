package history

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// DiskStore keeps the whole history list as one JSON document on local
// disk. Reads and writes are whole-list; there are no partial updates.
type DiskStore struct {
	mu   sync.Mutex
	path string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{path: filepath.Join(dir, StorageKey+".json")}, nil
}

func (s *DiskStore) Load(_ context.Context) ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

// loadLocked fails soft: a corrupt payload is logged, removed so repeated
// loads don't re-fail, and replaced by an empty list.
func (s *DiskStore) loadLocked() []types.HistoryItem {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("history: read %s failed: %v", s.path, err)
		}
		return []types.HistoryItem{}
	}
	var items []types.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("history: corrupt payload at %s, discarding: %v", s.path, err)
		_ = os.Remove(s.path)
		return []types.HistoryItem{}
	}
	sortNewestFirst(items)
	return items
}

func (s *DiskStore) Append(_ context.Context, item types.HistoryItem) ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := merge(s.loadLocked(), item)
	if err := s.persistLocked(items); err != nil {
		// Degraded mode: the session continues with the in-memory list,
		// it just won't survive a restart.
		log.Printf("history: persist to %s failed: %v", s.path, err)
	}
	return items, nil
}

func (s *DiskStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) persistLocked(items []types.HistoryItem) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

package history

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

// StorageKey is the single fixed key the whole history list lives under,
// kept from the original browser storage layout so exported data stays
// portable.
const StorageKey = "lexiguard_analysis_history"

var ErrNotFound = errors.New("history item not found")

// Store owns the canonical ordered list of history items, newest first.
// Load tolerates corrupt underlying storage by discarding it and returning
// an empty list. Append deduplicates by id, prepends, and must return the
// in-memory result even when the write fails, so a session continues
// degraded rather than aborting.
type Store interface {
	Load(ctx context.Context) ([]types.HistoryItem, error)
	Append(ctx context.Context, item types.HistoryItem) ([]types.HistoryItem, error)
	Reset(ctx context.Context) error
}

// merge replaces any existing item with the same id and prepends the new
// item, keeping the list newest first.
func merge(items []types.HistoryItem, item types.HistoryItem) []types.HistoryItem {
	out := make([]types.HistoryItem, 0, len(items)+1)
	out = append(out, item)
	for _, h := range items {
		if h.ID == item.ID {
			continue
		}
		out = append(out, h)
	}
	return out
}

// sortNewestFirst recomputes the order from the date field so corrupted
// ordering in storage self-heals on load.
func sortNewestFirst(items []types.HistoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return parseDate(items[i].Date).After(parseDate(items[j].Date))
	})
}

func parseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

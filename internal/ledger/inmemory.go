package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

type inMemoryWriter struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and dev mode.
func NewInMemory() Writer {
	return &inMemoryWriter{entries: make(map[string][]Entry)}
}

func (w *inMemoryWriter) Append(_ context.Context, entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[entry.WalletID] = append(w.entries[entry.WalletID], entry)
	return nil
}

func (w *inMemoryWriter) Query(_ context.Context, walletID string, from, to *time.Time) ([]Entry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []Entry
	for _, entry := range w.entries[walletID] {
		if from != nil && entry.Timestamp.Before(*from) {
			continue
		}
		if to != nil && entry.Timestamp.After(*to) {
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

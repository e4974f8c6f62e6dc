package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/stockaura/internal/contracts"
)

// MemoryStore is the in-process Store used when no database is configured
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]contracts.SignalSnapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]contracts.SignalSnapshot)}
}

// Put stores a deep copy of snap under its normalized ticker
func (m *MemoryStore) Put(_ context.Context, snap *contracts.SignalSnapshot) error {
	ticker := NormalizeTicker(snap.Ticker)
	if ticker == "" {
		return fmt.Errorf("snapshot has no ticker")
	}

	cp := snap.Clone()
	cp.Ticker = ticker

	m.mu.Lock()
	m.snaps[ticker] = *cp
	m.mu.Unlock()
	return nil
}

// Get returns a deep copy of the snapshot for ticker
func (m *MemoryStore) Get(_ context.Context, ticker string) (*contracts.SignalSnapshot, error) {
	m.mu.RLock()
	snap, ok := m.snaps[NormalizeTicker(ticker)]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return snap.Clone(), nil
}

// List returns every snapshot ordered by ticker
func (m *MemoryStore) List(_ context.Context) ([]contracts.SignalSnapshot, error) {
	m.mu.RLock()
	out := make([]contracts.SignalSnapshot, 0, len(m.snaps))
	for _, s := range m.snaps {
		out = append(out, *s.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

// Delete removes the snapshot for ticker
func (m *MemoryStore) Delete(_ context.Context, ticker string) error {
	ticker = NormalizeTicker(ticker)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snaps[ticker]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, ticker)
	return nil
}

package signal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// MemoryStore keeps signals in memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	signals map[string]core.ValidatedSignal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[string]core.ValidatedSignal)}
}

func (m *MemoryStore) Save(_ context.Context, sig core.ValidatedSignal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.signals[sig.ID]; exists {
		return core.WrapError(core.ErrStoreFailed, fmt.Errorf("signal %s already exists", sig.ID))
	}
	m.signals[sig.ID] = sig
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (core.ValidatedSignal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sig, ok := m.signals[id]
	if !ok {
		return core.ValidatedSignal{}, core.ErrSignalNotFound
	}
	return sig, nil
}

func (m *MemoryStore) List(_ context.Context, f ListFilter) ([]core.ValidatedSignal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.ValidatedSignal
	for _, sig := range m.signals {
		if matches(sig, f) {
			out = append(out, sig)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status core.SignalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sig, ok := m.signals[id]
	if !ok {
		return core.ErrSignalNotFound
	}
	sig.Status = status
	m.signals[id] = sig
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.signals), nil
}

func (m *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, sig := range m.signals {
		if sig.Timestamp.Before(cutoff) {
			delete(m.signals, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Close() error { return nil }

func matches(sig core.ValidatedSignal, f ListFilter) bool {
	if f.Symbol != "" && sig.Symbol != f.Symbol {
		return false
	}
	if f.Strategy != "" && sig.Strategy != f.Strategy {
		return false
	}
	if f.Status != "" && sig.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && sig.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && sig.Timestamp.After(f.To) {
		return false
	}
	return true
}

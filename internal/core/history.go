package core

import "sync"

// HistoryCapacity is the fixed number of past analyses kept per session.
// This is a product decision, not configuration.
const HistoryCapacity = 10

// HistoryStore is a bounded, newest-first, in-memory log of past analyses.
// Nothing mutates stored items after Record; eviction is strictly oldest-first.
// State is process-local and lost on restart.
type HistoryStore struct {
	mu    sync.RWMutex
	items []HistoryItem
}

// NewHistoryStore creates an empty history store
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		items: make([]HistoryItem, 0, HistoryCapacity),
	}
}

// Record prepends an item, evicting the oldest entries beyond the capacity
func (h *HistoryStore) Record(item HistoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append([]HistoryItem{item}, h.items...)
	if len(h.items) > HistoryCapacity {
		h.items = h.items[:HistoryCapacity]
	}
}

// Select returns the item with the given id, or ErrHistoryNotFound
func (h *HistoryStore) Select(id string) (HistoryItem, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, item := range h.items {
		if item.ID == id {
			return item, nil
		}
	}
	return HistoryItem{}, ErrHistoryNotFound
}

// Items returns a copy of the history, newest first
func (h *HistoryStore) Items() []HistoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of recorded items
func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

package history

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

const defaultMaxRecords = 10000

// Memory is an in-process Store. It backs the history endpoint when no
// database is configured and is lost on restart. It keeps at most a fixed
// number of records and evicts the oldest appended first.
type Memory struct {
	records map[string]Record
	order   []string
	max     int
	mu      sync.RWMutex
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMaxRecords caps the number of kept records. Defaults to 10000.
func WithMaxRecords(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.max = n
		}
	}
}

// NewMemory creates an empty Memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[string]Record),
		max:     defaultMaxRecords,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Append implements Store.
func (m *Memory) Append(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[r.UnitID]; ok {
		return nil
	}
	m.records[r.UnitID] = r
	m.order = append(m.order, r.UnitID)

	for len(m.order) > m.max {
		delete(m.records, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, campaignID string, limit int) ([]Record, error) {
	if campaignID == "" {
		return nil, ErrCampaignRequired
	}

	m.mu.RLock()
	var out []Record
	for _, r := range m.records {
		if r.CampaignID == campaignID {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.FinishedAt.Compare(a.FinishedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.UnitID, a.UnitID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Store = (*Memory)(nil)

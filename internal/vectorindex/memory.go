package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Memory is a brute-force cosine index used for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[uint]Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[uint]Entry)}
}

func (m *Memory) Upsert(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vec := make([]float32, len(e.Vector))
	copy(vec, e.Vector)
	e.Vector = vec
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) Search(_ context.Context, vector []float32, limit int) ([]Hit, error) {
	m.mu.RLock()
	hits := make([]Hit, 0, len(m.entries))
	for _, e := range m.entries {
		hits = append(hits, Hit{ID: e.ID, Score: cosine(vector, e.Vector), Tag: e.Tag, Price: e.Price})
	}
	m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].Score > hits[j].Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Has(id uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[id]
	return ok
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Package store provides RunStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/osg-reconciler/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[string]generic.RunRecord
}

func NewMemory() *Memory {
	return &Memory{runs: make(map[string]generic.RunRecord)}
}

// SaveRun stores a run. Append-only: saving an existing ID is ignored.
func (m *Memory) SaveRun(_ context.Context, run generic.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return nil
	}
	m.runs[run.ID] = copyRun(run)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*generic.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, generic.ErrRunNotFound
	}
	out := copyRun(run)
	return &out, nil
}

func (m *Memory) ListRuns(_ context.Context, limit int) ([]generic.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.RunRecord, 0, len(m.runs))
	for _, r := range m.runs {
		result = append(result, copyRun(r))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func copyRun(r generic.RunRecord) generic.RunRecord {
	r.ByStage = copyCounts(r.ByStage)
	r.ByReason = copyCounts(r.ByReason)
	return r
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ generic.RunStore = (*Memory)(nil)

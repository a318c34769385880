package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ResultStore is an in-memory implementation of storage.ResultStore.
type ResultStore struct {
	mu   sync.RWMutex
	runs map[string][]types.SampleReturnStats
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		runs: make(map[string][]types.SampleReturnStats),
	}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

// InsertBulk appends rows to runID. Nothing is stored if any row is invalid.
func (s *ResultStore) InsertBulk(_ context.Context, runID string, rows []types.SampleReturnStats) error {
	if err := storage.ValidateRun(runID, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[runID] = append(s.runs[runID], rows...)
	return nil
}

// ListByRun returns a copy of the rows of runID ordered by ma_duration, then min_return.
func (s *ResultStore) ListByRun(_ context.Context, runID string) ([]types.SampleReturnStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.SampleReturnStats, len(s.runs[runID]))
	copy(result, s.runs[runID])

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].MADuration != result[j].MADuration {
			return result[i].MADuration < result[j].MADuration
		}
		return result[i].MinReturn < result[j].MinReturn
	})
	return result, nil
}

// Runs returns the ids of every stored run, sorted.
func (s *ResultStore) Runs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

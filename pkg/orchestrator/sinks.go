package orchestrator

import (
	"context"

	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// StoreSink persists rows to a ResultStore under a fixed run id
type StoreSink struct {
	store storage.ResultStore
	runID string
	name  string
}

// NewStoreSink creates a sink writing to store. name appears in errors.
func NewStoreSink(name string, store storage.ResultStore, runID string) *StoreSink {
	return &StoreSink{store: store, runID: runID, name: name}
}

// SaveResults inserts rows as one batch
func (s *StoreSink) SaveResults(ctx context.Context, rows []types.SampleReturnStats) error {
	if err := s.store.InsertBulk(ctx, s.runID, rows); err != nil {
		return simerrors.NewStorageError(s.name, "insert results", err)
	}
	return nil
}

// RunID returns the run the sink writes to
func (s *StoreSink) RunID() string {
	return s.runID
}

// CollectSink keeps every row in memory
type CollectSink struct {
	Rows []types.SampleReturnStats
}

// SaveResults appends rows
func (s *CollectSink) SaveResults(_ context.Context, rows []types.SampleReturnStats) error {
	s.Rows = append(s.Rows, rows...)
	return nil
}

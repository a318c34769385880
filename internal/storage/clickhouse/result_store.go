package clickhouse

import (
	"context"
	"fmt"

	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ResultStore implements storage.ResultStore using ClickHouse.
type ResultStore struct {
	conn *Conn
}

// NewResultStore creates a new ResultStore.
func NewResultStore(conn *Conn) *ResultStore {
	return &ResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

// InsertBulk adds rows to runID as one batch.
func (s *ResultStore) InsertBulk(ctx context.Context, runID string, rows []types.SampleReturnStats) error {
	if err := storage.ValidateRun(runID, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sample_return_stats (
			run_id, min_return, ma_duration, samples, avg_trades,
			min_net_worth, max_net_worth, mean_net_worth, stddev_net_worth
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			runID, r.MinReturn, uint32(r.MADuration), uint32(r.Samples), r.AvgNumTrades,
			r.Min, r.Max, r.Mean, r.StdDev,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// ListByRun retrieves the rows of runID ordered by ma_duration, then min_return.
func (s *ResultStore) ListByRun(ctx context.Context, runID string) ([]types.SampleReturnStats, error) {
	query := `
		SELECT min_return, ma_duration, samples, avg_trades,
			min_net_worth, max_net_worth, mean_net_worth, stddev_net_worth
		FROM sample_return_stats
		WHERE run_id = ?
		ORDER BY ma_duration ASC, min_return ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	result := make([]types.SampleReturnStats, 0)
	for rows.Next() {
		var r types.SampleReturnStats
		var maDuration, samples uint32

		err := rows.Scan(
			&r.MinReturn, &maDuration, &samples, &r.AvgNumTrades,
			&r.Min, &r.Max, &r.Mean, &r.StdDev,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample return stats row: %w", err)
		}

		r.MADuration = int(maDuration)
		r.Samples = int(samples)
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample return stats: %w", err)
	}
	return result, nil
}

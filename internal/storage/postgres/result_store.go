package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ResultStore implements storage.ResultStore using PostgreSQL.
type ResultStore struct {
	pool *Pool
}

// NewResultStore creates a new ResultStore.
func NewResultStore(pool *Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

// InsertBulk adds rows to runID in a single transaction.
func (s *ResultStore) InsertBulk(ctx context.Context, runID string, rows []types.SampleReturnStats) error {
	if err := storage.ValidateRun(runID, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sample_return_stats (
			run_id, min_return, ma_duration, samples, avg_trades,
			min_net_worth, max_net_worth, mean_net_worth, stddev_net_worth
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(query,
			runID,
			decimal.NewFromFloat(r.MinReturn),
			r.MADuration,
			r.Samples,
			r.AvgNumTrades,
			decimal.NewFromFloat(r.Min),
			decimal.NewFromFloat(r.Max),
			decimal.NewFromFloat(r.Mean),
			decimal.NewFromFloat(r.StdDev),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sample return stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListByRun retrieves the rows of runID ordered by ma_duration, min_return, insertion.
func (s *ResultStore) ListByRun(ctx context.Context, runID string) ([]types.SampleReturnStats, error) {
	query := `
		SELECT min_return, ma_duration, samples, avg_trades,
			min_net_worth, max_net_worth, mean_net_worth, stddev_net_worth
		FROM sample_return_stats
		WHERE run_id = $1
		ORDER BY ma_duration ASC, min_return ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list sample return stats: %w", err)
	}
	defer rows.Close()

	result := make([]types.SampleReturnStats, 0)
	for rows.Next() {
		var r types.SampleReturnStats
		var minReturn, minNW, maxNW, meanNW, stdNW decimal.Decimal
		err := rows.Scan(
			&minReturn, &r.MADuration, &r.Samples, &r.AvgNumTrades,
			&minNW, &maxNW, &meanNW, &stdNW,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample return stats row: %w", err)
		}

		r.MinReturn = minReturn.InexactFloat64()
		r.Min = minNW.InexactFloat64()
		r.Max = maxNW.InexactFloat64()
		r.Mean = meanNW.InexactFloat64()
		r.StdDev = stdNW.InexactFloat64()
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample return stats: %w", err)
	}
	return result, nil
}

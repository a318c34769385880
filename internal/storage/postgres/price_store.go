package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/pkg/data"
)

// PriceStore implements storage.PriceBarStore using PostgreSQL.
// It doubles as a data.PriceProvider keyed by symbol.
type PriceStore struct {
	pool *Pool
}

// NewPriceStore creates a new PriceStore.
func NewPriceStore(pool *Pool) *PriceStore {
	return &PriceStore{pool: pool}
}

// Compile-time interface checks.
var (
	_ storage.PriceBarStore = (*PriceStore)(nil)
	_ data.PriceProvider    = (*PriceStore)(nil)
)

// GetName returns the name of the data provider
func (s *PriceStore) GetName() string {
	return "Postgres Provider"
}

// UpsertBars inserts bars in one transaction, overwriting existing candles.
func (s *PriceStore) UpsertBars(ctx context.Context, bars []storage.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	for _, b := range bars {
		if b.Symbol == "" || !b.Open.IsPositive() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO price_bars (symbol, open_time, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, open_time) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, b.Symbol, b.OpenTime, b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert price bars: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadPrices returns the opens of symbol ordered by open time.
func (s *PriceStore) LoadPrices(ctx context.Context, symbol string) ([]float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT open FROM price_bars
		WHERE symbol = $1
		ORDER BY open_time ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query price bars: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var open decimal.Decimal
		if err := rows.Scan(&open); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		prices = append(prices, open.InexactFloat64())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bars: %w", err)
	}

	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, data.ErrNoPrices)
	}
	return prices, nil
}

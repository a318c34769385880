package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ResultStore persists the summary rows of a grid run.
type ResultStore interface {
	// InsertBulk appends rows to runID atomically.
	InsertBulk(ctx context.Context, runID string, rows []types.SampleReturnStats) error

	// ListByRun returns every row of runID ordered by ma_duration, then min_return.
	// An unknown run yields an empty slice.
	ListByRun(ctx context.Context, runID string) ([]types.SampleReturnStats, error)
}

// PriceBar is one stored candle of a symbol.
type PriceBar struct {
	Symbol   string
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// PriceBarStore persists downloaded candles and serves their opens as a price series.
type PriceBarStore interface {
	// UpsertBars inserts bars, replacing any bar with the same symbol and open time.
	UpsertBars(ctx context.Context, bars []PriceBar) error

	// LoadPrices returns the opens of symbol ordered by open time.
	LoadPrices(ctx context.Context, symbol string) ([]float64, error)
}

// ValidateRun checks the arguments common to every InsertBulk implementation.
func ValidateRun(runID string, rows []types.SampleReturnStats) error {
	if runID == "" {
		return ErrInvalidInput
	}
	for _, row := range rows {
		if err := row.AgentParams.Validate(); err != nil {
			return ErrInvalidInput
		}
	}
	return nil
}

package orchestrator

import (
	"context"

	"github.com/ducminhle1904/pair-montecarlo/internal/backtest"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// Orchestrator runs a parameter grid over one pair series
type Orchestrator interface {
	// Run simulates every grid point in order and returns all rows
	Run(ctx context.Context, series *types.PairSeries, grid ParameterGrid) (*RunResult, error)
}

// ResultSink receives the rows of each grid point before the next point starts
type ResultSink interface {
	SaveResults(ctx context.Context, rows []types.SampleReturnStats) error
}

// SimulateFunc runs one grid point. backtest.Simulate in production.
type SimulateFunc func(params backtest.SimulationParams, opts ...backtest.SamplerOption) ([]types.SampleReturnStats, error)

package backtest

import (
	"fmt"

	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// SimulationParams wires one grid point into a sampling run
type SimulationParams struct {
	MinReturn        float64
	MADuration       int
	NumThreads       int
	SamplesPerThread int
	NSteps           int
	PairSeries       *types.PairSeries
}

// Simulate runs one sampling call for the given parameters and returns one row per worker
func Simulate(params SimulationParams, opts ...SamplerOption) ([]types.SampleReturnStats, error) {
	sampler, err := NewSampler(params.PairSeries, opts...)
	if err != nil {
		return nil, simerrors.NewDataError("simulation", "create sampler", err)
	}

	agentParams := types.NewAgentParams(params.MinReturn, params.MADuration)
	rows, err := sampler.SampleReturns(params.NumThreads, params.SamplesPerThread, params.NSteps, agentParams)
	if err != nil {
		return nil, simerrors.NewConfigurationError("simulation", "sample returns",
			fmt.Sprintf("min_return=%.4f ma_duration=%d: %v", params.MinReturn, params.MADuration, err))
	}
	return rows, nil
}

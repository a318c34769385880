package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/internal/backtest"
	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/internal/monitoring"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage/memory"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

func smallGrid() ParameterGrid {
	return ParameterGrid{
		MinReturnStart: 1.002, MinReturnStep: 0.001, MinReturnCount: 2,
		MADurationStart: 3, MADurationStep: 2, MADurationCount: 2,
	}
}

func testSeries(t *testing.T) *types.PairSeries {
	t.Helper()
	top := []float64{100, 101, 99, 102, 98, 103, 97, 101, 100, 104}
	bottom := []float64{1, 1.01, 0.99, 1, 1.02, 0.98, 1, 1.01, 0.99, 1}
	series, err := types.NewPairSeries(top, bottom)
	require.NoError(t, err)
	return series
}

// recordingSimulate returns one row per thread echoing the params
func recordingSimulate(calls *[]backtest.SimulationParams) SimulateFunc {
	return func(params backtest.SimulationParams, _ ...backtest.SamplerOption) ([]types.SampleReturnStats, error) {
		*calls = append(*calls, params)
		rows := make([]types.SampleReturnStats, params.NumThreads)
		for i := range rows {
			rows[i] = types.SampleReturnStats{
				AgentParams: types.NewAgentParams(params.MinReturn, params.MADuration),
				Samples:     params.SamplesPerThread,
				Mean:        1000,
			}
		}
		return rows, nil
	}
}

// orderSink records the number of rows it has seen at each call
type orderSink struct {
	seen []int
	err  error
}

func (s *orderSink) SaveResults(_ context.Context, rows []types.SampleReturnStats) error {
	s.seen = append(s.seen, len(rows))
	return s.err
}

func TestGridRunner_RunsEveryPointInOrder(t *testing.T) {
	var calls []backtest.SimulationParams
	collect := &CollectSink{}
	store := memory.NewResultStore()
	status := monitoring.NewRunStatus()

	runner := NewGridRunner(SamplingConfig{NumThreads: 3, SamplesPerThread: 4, NSteps: 100},
		WithSimulateFunc(recordingSimulate(&calls)),
		WithRunID("run-42"),
		WithStatus(status),
		WithSinks(collect),
	)
	runner.sinks = append(runner.sinks, NewStoreSink("memory", store, runner.RunID()))

	series := testSeries(t)
	result, err := runner.Run(context.Background(), series, smallGrid())
	require.NoError(t, err)

	require.Len(t, calls, 4)
	assert.Equal(t, 1.002, calls[0].MinReturn)
	assert.Equal(t, 3, calls[0].MADuration)
	assert.Equal(t, 1.003, calls[1].MinReturn)
	assert.Equal(t, 5, calls[2].MADuration)
	for _, c := range calls {
		assert.Equal(t, 3, c.NumThreads)
		assert.Equal(t, 4, c.SamplesPerThread)
		assert.Equal(t, 100, c.NSteps)
		assert.Same(t, series, c.PairSeries)
	}

	assert.Equal(t, "run-42", result.RunID)
	assert.Equal(t, 4, result.Points)
	assert.Len(t, result.Rows, 12)
	assert.Len(t, collect.Rows, 12)

	stored, err := store.ListByRun(context.Background(), "run-42")
	require.NoError(t, err)
	assert.Len(t, stored, 12)

	report := status.Report()
	assert.Equal(t, "complete", report.Status)
	assert.Equal(t, 4, report.Completed)
}

func TestGridRunner_GeneratesRunID(t *testing.T) {
	a := NewGridRunner(SamplingConfig{})
	b := NewGridRunner(SamplingConfig{})
	assert.Len(t, a.RunID(), 36)
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestGridRunner_StopsOnSimulationError(t *testing.T) {
	boom := simerrors.NewConfigurationError("simulation", "sample returns", "bad")
	calls := 0
	sink := &orderSink{}
	runner := NewGridRunner(SamplingConfig{NumThreads: 1, SamplesPerThread: 1},
		WithSimulateFunc(func(params backtest.SimulationParams, _ ...backtest.SamplerOption) ([]types.SampleReturnStats, error) {
			calls++
			if calls == 2 {
				return nil, boom
			}
			return []types.SampleReturnStats{{AgentParams: types.NewAgentParams(params.MinReturn, params.MADuration)}}, nil
		}),
		WithSinks(sink),
	)

	result, err := runner.Run(context.Background(), testSeries(t), smallGrid())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, result.Points)
	assert.Equal(t, []int{1}, sink.seen)
}

func TestGridRunner_StopsOnSinkError(t *testing.T) {
	var calls []backtest.SimulationParams
	sinkErr := errors.New("disk full")
	runner := NewGridRunner(SamplingConfig{NumThreads: 2, SamplesPerThread: 1},
		WithSimulateFunc(recordingSimulate(&calls)),
		WithSinks(&orderSink{err: sinkErr}),
	)

	_, err := runner.Run(context.Background(), testSeries(t), smallGrid())
	assert.ErrorIs(t, err, sinkErr)
	assert.Len(t, calls, 1)
}

func TestGridRunner_CancellationBetweenPoints(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	runner := NewGridRunner(SamplingConfig{NumThreads: 1, SamplesPerThread: 1},
		WithSimulateFunc(func(params backtest.SimulationParams, _ ...backtest.SamplerOption) ([]types.SampleReturnStats, error) {
			calls++
			if calls == 2 {
				cancel()
			}
			return []types.SampleReturnStats{{AgentParams: types.NewAgentParams(params.MinReturn, params.MADuration)}}, nil
		}),
	)

	result, err := runner.Run(ctx, testSeries(t), smallGrid())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, result.Points)
	assert.Len(t, result.Rows, 2)
}

func TestGridRunner_InvalidGrid(t *testing.T) {
	_, err := NewGridRunner(SamplingConfig{}).Run(context.Background(), testSeries(t), ParameterGrid{})

	var simErr *simerrors.SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, simerrors.ErrorCategoryConfiguration, simErr.Category)
}

func TestGridRunner_WithRealSimulation(t *testing.T) {
	runner := NewGridRunner(SamplingConfig{NumThreads: 2, SamplesPerThread: 3, NSteps: 50},
		WithSamplerOptions(backtest.WithFixedSeed(5)),
	)

	result, err := runner.Run(context.Background(), testSeries(t), smallGrid())
	require.NoError(t, err)
	require.Len(t, result.Rows, 8)
	for _, row := range result.Rows {
		assert.Equal(t, 3, row.Samples)
		assert.LessOrEqual(t, row.Min, row.Max)
	}
}

func TestStoreSink_WrapsStorageErrors(t *testing.T) {
	sink := NewStoreSink("memory", memory.NewResultStore(), "")
	err := sink.SaveResults(context.Background(), []types.SampleReturnStats{{AgentParams: types.NewAgentParams(1.01, 5)}})

	var simErr *simerrors.SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, simerrors.ErrorCategoryStorage, simErr.Category)
	assert.Equal(t, "", sink.RunID())
}

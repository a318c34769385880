package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ducminhle1904/pair-montecarlo/internal/backtest"
	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/internal/monitoring"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// Grid point outcomes reported to metrics
const (
	pointComplete = "complete"
	pointFailed   = "failed"
	pointCanceled = "canceled"
)

// SamplingConfig sizes every Simulate call of a run
type SamplingConfig struct {
	NumThreads       int
	SamplesPerThread int
	NSteps           int
}

// RunResult is the outcome of a grid run
type RunResult struct {
	RunID      string
	Points     int
	Rows       []types.SampleReturnStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// GridRunner simulates a parameter grid one point at a time
type GridRunner struct {
	sampling    SamplingConfig
	sinks       []ResultSink
	logger      *zap.Logger
	status      *monitoring.RunStatus
	simulate    SimulateFunc
	samplerOpts []backtest.SamplerOption
	runID       string
}

// RunnerOption configures a GridRunner
type RunnerOption func(*GridRunner)

// WithSinks adds result sinks, called in order for every grid point
func WithSinks(sinks ...ResultSink) RunnerOption {
	return func(r *GridRunner) {
		r.sinks = append(r.sinks, sinks...)
	}
}

// WithRunnerLogger sets the logger
func WithRunnerLogger(logger *zap.Logger) RunnerOption {
	return func(r *GridRunner) {
		r.logger = logger
	}
}

// WithStatus reports progress to status
func WithStatus(status *monitoring.RunStatus) RunnerOption {
	return func(r *GridRunner) {
		r.status = status
	}
}

// WithSimulateFunc replaces backtest.Simulate
func WithSimulateFunc(fn SimulateFunc) RunnerOption {
	return func(r *GridRunner) {
		r.simulate = fn
	}
}

// WithSamplerOptions forwards options to every sampler
func WithSamplerOptions(opts ...backtest.SamplerOption) RunnerOption {
	return func(r *GridRunner) {
		r.samplerOpts = append(r.samplerOpts, opts...)
	}
}

// WithRunID fixes the run id instead of generating one
func WithRunID(runID string) RunnerOption {
	return func(r *GridRunner) {
		r.runID = runID
	}
}

// NewGridRunner creates a runner
func NewGridRunner(sampling SamplingConfig, opts ...RunnerOption) *GridRunner {
	r := &GridRunner{
		sampling: sampling,
		logger:   zap.NewNop(),
		status:   monitoring.NewRunStatus(),
		simulate: backtest.Simulate,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// Compile-time interface check.
var _ Orchestrator = (*GridRunner)(nil)

// RunID returns the id under which rows are stored
func (r *GridRunner) RunID() string {
	return r.runID
}

// Run simulates every point of grid. Each point's rows reach every sink before
// the next point starts. Cancellation is checked between points, so a canceled
// run returns the rows completed so far together with the context error.
func (r *GridRunner) Run(ctx context.Context, series *types.PairSeries, grid ParameterGrid) (*RunResult, error) {
	if err := grid.Validate(); err != nil {
		return nil, simerrors.NewConfigurationError("grid_runner", "validate grid", err.Error())
	}

	points := grid.Points()
	result := &RunResult{
		RunID:     r.runID,
		StartedAt: time.Now(),
	}
	progress := NewProgressTracker(len(points))
	r.status.Start(r.runID, len(points))

	r.logger.Info("grid run started",
		zap.String("run_id", r.runID),
		zap.Int("points", len(points)),
		zap.Int("threads", r.sampling.NumThreads),
		zap.Int("samples_per_thread", r.sampling.SamplesPerThread),
		zap.Int("steps", r.sampling.NSteps),
	)

	for _, point := range points {
		if err := ctx.Err(); err != nil {
			monitoring.RecordGridPoint(pointCanceled)
			r.status.AddError(err)
			r.logger.Warn("grid run canceled", zap.String("run_id", r.runID), zap.Stringer("progress", progress.Snapshot()))
			result.FinishedAt = time.Now()
			return result, err
		}

		label := fmt.Sprintf("min_return=%.4f ma_duration=%d", point.MinReturn, point.MADuration)
		r.status.SetCurrent(label)

		rows, err := r.simulate(backtest.SimulationParams{
			MinReturn:        point.MinReturn,
			MADuration:       point.MADuration,
			NumThreads:       r.sampling.NumThreads,
			SamplesPerThread: r.sampling.SamplesPerThread,
			NSteps:           r.sampling.NSteps,
			PairSeries:       series,
		}, r.samplerOpts...)
		if err != nil {
			return r.fail(result, label, err)
		}

		for _, sink := range r.sinks {
			if err := sink.SaveResults(ctx, rows); err != nil {
				return r.fail(result, label, err)
			}
		}

		result.Rows = append(result.Rows, rows...)
		result.Points++
		monitoring.RecordGridPoint(pointComplete)
		r.status.Complete()

		p := progress.Advance()
		r.logger.Info("grid point complete",
			zap.Float64("min_return", point.MinReturn),
			zap.Int("ma_duration", point.MADuration),
			zap.Int("rows", len(rows)),
			zap.Stringer("progress", p),
		)
	}

	result.FinishedAt = time.Now()
	r.logger.Info("grid run complete",
		zap.String("run_id", r.runID),
		zap.Int("rows", len(result.Rows)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (r *GridRunner) fail(result *RunResult, label string, err error) (*RunResult, error) {
	monitoring.RecordGridPoint(pointFailed)
	r.status.AddError(err)
	r.logger.Error("grid point failed", zap.String("point", label), zap.Error(err))
	result.FinishedAt = time.Now()
	return result, fmt.Errorf("%s: %w", label, err)
}

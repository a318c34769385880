package backtest

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/ducminhle1904/pair-montecarlo/internal/agent"
	"github.com/ducminhle1904/pair-montecarlo/internal/monitoring"
	"github.com/ducminhle1904/pair-montecarlo/internal/strategy"
	"github.com/ducminhle1904/pair-montecarlo/internal/stream"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// SeedFunc returns the RNG seed for a worker
type SeedFunc func(worker int) [32]byte

// StrategyFactory builds a fresh strategy for every pass
type StrategyFactory func(params types.AgentParams) strategy.TradeStrategy

// Sampler runs independent, randomly offset simulation passes over one shared pair series
type Sampler struct {
	stream      *stream.EndlessPairStream
	logger      *zap.Logger
	seed        SeedFunc
	newStrategy StrategyFactory
}

// SamplerOption configures a Sampler
type SamplerOption func(*Sampler)

// WithLogger sets the logger used for per-worker summaries
func WithLogger(logger *zap.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// WithSeedFunc replaces the entropy-based seeding
func WithSeedFunc(seed SeedFunc) SamplerOption {
	return func(s *Sampler) {
		s.seed = seed
	}
}

// WithFixedSeed makes every run reproducible: worker i is always seeded from (base, i)
func WithFixedSeed(base uint64) SamplerOption {
	return WithSeedFunc(func(worker int) [32]byte {
		var seed [32]byte
		binary.LittleEndian.PutUint64(seed[0:8], base)
		binary.LittleEndian.PutUint64(seed[8:16], uint64(worker))
		return seed
	})
}

// WithStrategyFactory swaps the strategy run by each agent
func WithStrategyFactory(factory StrategyFactory) SamplerOption {
	return func(s *Sampler) {
		s.newStrategy = factory
	}
}

// NewSampler creates a sampler over series. The series is shared read-only by all workers.
func NewSampler(series *types.PairSeries, opts ...SamplerOption) (*Sampler, error) {
	endless, err := stream.NewEndlessPairStream(series)
	if err != nil {
		return nil, err
	}

	s := &Sampler{
		stream: endless,
		logger: zap.NewNop(),
		seed:   entropySeed,
		newStrategy: func(params types.AgentParams) strategy.TradeStrategy {
			return strategy.NewMovingMarkStrategy(params)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PassResult is the outcome of one simulation pass
type PassResult struct {
	NetWorth float64
	Trades   int
}

// SampleReturns spawns numThreads workers, each running samplesPerThread passes of
// nSteps ticks, and blocks until every worker has delivered its summary row.
// Rows are returned in arrival order.
func (s *Sampler) SampleReturns(numThreads, samplesPerThread, nSteps int, params types.AgentParams) ([]types.SampleReturnStats, error) {
	if numThreads <= 0 {
		return nil, fmt.Errorf("num threads must be positive, got: %d", numThreads)
	}
	if samplesPerThread <= 0 {
		return nil, fmt.Errorf("samples per thread must be positive, got: %d", samplesPerThread)
	}
	if nSteps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got: %d", nSteps)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	results := make(chan types.SampleReturnStats, numThreads)
	for i := 0; i < numThreads; i++ {
		go s.worker(i, samplesPerThread, nSteps, params, results)
	}

	rows := make([]types.SampleReturnStats, 0, numThreads)
	for i := 0; i < numThreads; i++ {
		rows = append(rows, <-results)
	}
	return rows, nil
}

// worker runs its passes sequentially and sends exactly one row
func (s *Sampler) worker(workerID, samples, nSteps int, params types.AgentParams, out chan<- types.SampleReturnStats) {
	startTime := time.Now()
	rng := rand.New(rand.NewChaCha8(s.seed(workerID)))

	passes := make([]PassResult, 0, samples)
	for i := 0; i < samples; i++ {
		a := agent.NewWithStrategy(s.newStrategy(params))
		s.stream.Iterate(nSteps, rng.Uint64(), a.Handle)

		pass := PassResult{NetWorth: a.NetWorth(), Trades: a.Trades()}
		passes = append(passes, pass)
		monitoring.RecordPass(pass.NetWorth, pass.Trades)
	}

	stats := ReduceSamples(params, passes)
	monitoring.RecordWorker(time.Since(startTime))

	s.logger.Debug("worker complete",
		zap.Int("worker", workerID),
		zap.Float64("min_return", params.MinReturn),
		zap.Int("ma_duration", params.MADuration),
		zap.Float64("avg_trades", stats.AvgNumTrades),
		zap.Float64("mean", stats.Mean),
		zap.Float64("stddev", stats.StdDev),
	)

	out <- stats
}

// entropySeed draws a worker seed from the operating system.
// A failing entropy source is unrecoverable.
func entropySeed(int) [32]byte {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("read entropy: %v", err))
	}
	return seed
}

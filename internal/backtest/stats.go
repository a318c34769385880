package backtest

import (
	"math"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ReduceSamples summarises one worker's passes. StdDev is the sample standard
// deviation (n-1) and is zero with fewer than two passes.
func ReduceSamples(params types.AgentParams, passes []PassResult) types.SampleReturnStats {
	stats := types.SampleReturnStats{
		AgentParams: params,
		Samples:     len(passes),
	}
	if len(passes) == 0 {
		return stats
	}

	stats.Min = math.Inf(1)
	stats.Max = math.Inf(-1)

	sum := 0.0
	trades := 0.0
	for _, p := range passes {
		sum += p.NetWorth
		trades += float64(p.Trades)
		stats.Min = math.Min(stats.Min, p.NetWorth)
		stats.Max = math.Max(stats.Max, p.NetWorth)
	}
	n := float64(len(passes))
	stats.Mean = sum / n
	stats.AvgNumTrades = trades / n

	if len(passes) > 1 {
		sumSquares := 0.0
		for _, p := range passes {
			diff := p.NetWorth - stats.Mean
			sumSquares += diff * diff
		}
		stats.StdDev = math.Sqrt(sumSquares / (n - 1))
	}

	return stats
}

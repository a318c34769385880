package orchestrator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ParameterGrid enumerates min_return and ma_duration values as arithmetic sequences
type ParameterGrid struct {
	MinReturnStart float64
	MinReturnStep  float64
	MinReturnCount int

	MADurationStart int
	MADurationStep  int
	MADurationCount int
}

// DefaultParameterGrid covers min_return = 1 + k*0.0005 for k in [3,100)
// and ma_duration = 5*m for m in [1,100)
func DefaultParameterGrid() ParameterGrid {
	return ParameterGrid{
		MinReturnStart:  1.0015,
		MinReturnStep:   0.0005,
		MinReturnCount:  97,
		MADurationStart: 5,
		MADurationStep:  5,
		MADurationCount: 99,
	}
}

// Size returns the number of grid points
func (g ParameterGrid) Size() int {
	return g.MinReturnCount * g.MADurationCount
}

// Validate checks that every point of the grid is a valid AgentParams
func (g ParameterGrid) Validate() error {
	if g.MinReturnCount <= 0 || g.MADurationCount <= 0 {
		return fmt.Errorf("grid counts must be positive, got min_return=%d ma_duration=%d", g.MinReturnCount, g.MADurationCount)
	}
	if g.MinReturnStep < 0 || g.MADurationStep < 0 {
		return fmt.Errorf("grid steps must be non-negative")
	}
	for _, p := range [][2]int{{0, 0}, {g.MinReturnCount - 1, g.MADurationCount - 1}} {
		if err := g.point(p[0], p[1]).Validate(); err != nil {
			return fmt.Errorf("invalid grid point: %w", err)
		}
	}
	return nil
}

// Points enumerates the grid with ma_duration as the outer loop and
// min_return as the inner loop
func (g ParameterGrid) Points() []types.AgentParams {
	points := make([]types.AgentParams, 0, g.Size())
	for m := 0; m < g.MADurationCount; m++ {
		for k := 0; k < g.MinReturnCount; k++ {
			points = append(points, g.point(k, m))
		}
	}
	return points
}

// point computes min_return in decimal so 1.0015 stays 1.0015
func (g ParameterGrid) point(k, m int) types.AgentParams {
	minReturn := decimal.NewFromFloat(g.MinReturnStart).
		Add(decimal.NewFromFloat(g.MinReturnStep).Mul(decimal.NewFromInt(int64(k))))
	return types.NewAgentParams(minReturn.InexactFloat64(), g.MADurationStart+m*g.MADurationStep)
}

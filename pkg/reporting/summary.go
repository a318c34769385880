package reporting

import (
	"math"
	"sort"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// PointSummary merges every worker row of one parameter point
type PointSummary struct {
	types.AgentParams
	Rows      int     `json:"workers"`
	Samples   int     `json:"samples"`
	AvgTrades float64 `json:"avg_trades"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
}

// Summarize groups rows by parameters. Means and trade counts are weighted by
// samples. The result is ordered by mean net worth, best first.
func Summarize(rows []types.SampleReturnStats) []PointSummary {
	index := make(map[types.AgentParams]int)
	var points []PointSummary

	for _, row := range rows {
		i, ok := index[row.AgentParams]
		if !ok {
			i = len(points)
			index[row.AgentParams] = i
			points = append(points, PointSummary{
				AgentParams: row.AgentParams,
				Min:         math.Inf(1),
				Max:         math.Inf(-1),
			})
		}

		p := &points[i]
		w := float64(row.Samples)
		p.Rows++
		p.Samples += row.Samples
		p.Mean += row.Mean * w
		p.AvgTrades += row.AvgNumTrades * w
		p.Min = math.Min(p.Min, row.Min)
		p.Max = math.Max(p.Max, row.Max)
	}

	for i := range points {
		if points[i].Samples > 0 {
			points[i].Mean /= float64(points[i].Samples)
			points[i].AvgTrades /= float64(points[i].Samples)
		}
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Mean > points[j].Mean })
	return points
}

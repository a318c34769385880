package reporting

import (
	"context"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// Package reporting renders grid run results as CSV, XLSX, JSON and console tables

// ResultWriter receives the rows of each grid point as they complete
type ResultWriter interface {
	SaveResults(ctx context.Context, rows []types.SampleReturnStats) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle int
	ParamStyle  int
	NumberStyle int
	BestStyle   int
}

// ResultsHeader is the header row shared by the CSV and XLSX outputs
var ResultsHeader = []string{"min_return", "ma_duration", "samples", "avg_trades", "min", "max", "mean", "stddev"}

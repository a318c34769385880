package reporting

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ResultsCSVWriter appends result rows to a CSV file. The header is written
// only when the file is new or empty.
type ResultsCSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewResultsCSVWriter prepares path for appending, writing the header if needed
func NewResultsCSVWriter(path string) (*ResultsCSVWriter, error) {
	if err := EnsureDirectoryExists(path); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(ResultsHeader); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	return &ResultsCSVWriter{path: path}, nil
}

// Path returns the output file
func (w *ResultsCSVWriter) Path() string {
	return w.path
}

// SaveResults appends rows and flushes before returning
func (w *ResultsCSVWriter) SaveResults(_ context.Context, rows []types.SampleReturnStats) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	for _, row := range rows {
		if err := cw.Write(FormatRow(row)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRow renders a row the way the results file expects: min_return in its
// shortest exact form, integers as-is and every real to two decimals.
func FormatRow(row types.SampleReturnStats) []string {
	return []string{
		decimal.NewFromFloat(row.MinReturn).String(),
		strconv.Itoa(row.MADuration),
		strconv.Itoa(row.Samples),
		fixed2(row.AvgNumTrades),
		fixed2(row.Min),
		fixed2(row.Max),
		fixed2(row.Mean),
		fixed2(row.StdDev),
	}
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

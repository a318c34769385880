package reporting

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

func sampleRow(minReturn float64, ma int, mean float64) types.SampleReturnStats {
	return types.SampleReturnStats{
		AgentParams:  types.NewAgentParams(minReturn, ma),
		Samples:      64,
		AvgNumTrades: 37.265625,
		Min:          mean - 50.123,
		Max:          mean + 75.5,
		Mean:         mean,
		StdDev:       21.0049,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestFormatRow(t *testing.T) {
	got := FormatRow(sampleRow(1.0015, 60, 1012.3456))
	assert.Equal(t, []string{"1.0015", "60", "64", "37.27", "962.22", "1087.85", "1012.35", "21.00"}, got)
}

func TestResultsCSVWriter_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	ctx := context.Background()

	w, err := NewResultsCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.SaveResults(ctx, []types.SampleReturnStats{sampleRow(1.0015, 5, 1000)}))
	require.NoError(t, w.SaveResults(ctx, []types.SampleReturnStats{sampleRow(1.0020, 5, 1001), sampleRow(1.0025, 5, 1002)}))

	// Reopening an existing file keeps appending without a second header
	again, err := NewResultsCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, again.SaveResults(ctx, []types.SampleReturnStats{sampleRow(1.0015, 10, 999)}))

	records := readCSV(t, path)
	require.Len(t, records, 5)
	assert.Equal(t, ResultsHeader, records[0])
	assert.Equal(t, "1.0015", records[1][0])
	assert.Equal(t, "1.0025", records[3][0])
	assert.Equal(t, "10", records[4][1])
	assert.Equal(t, path, again.Path())
}

func TestResultsCSVWriter_EmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w, err := NewResultsCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.SaveResults(context.Background(), nil))

	assert.Len(t, readCSV(t, path), 1)
}

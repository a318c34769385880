package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/pair-montecarlo/internal/config"
	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/pkg/reporting"
)

// writeCandles writes a candles.csv style file with a sine-shaped open column
func writeCandles(t *testing.T, path string, n int, base, amplitude float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp,open,high,low,close,volume\n")
	for i := 0; i < n; i++ {
		open := base + amplitude*math.Sin(float64(i)/7)
		fmt.Fprintf(&b, "2024-01-01 00:%02d:00,%.4f,%.4f,%.4f,%.4f,1\n", i%60, open, open, open, open)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
}

func TestSimFlags_ApplyOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := NewSimFlags(fs)
	require.NoError(t, fs.Parse([]string{"-threads", "3", "-source", "Bybit", "-ma-count", "2"}))

	cfg := config.Default()
	f.Apply(fs, cfg)

	assert.Equal(t, 3, cfg.Sampling.NumThreads)
	assert.Equal(t, config.SourceBybit, cfg.Source)
	assert.Equal(t, 2, cfg.Grid.MADurationCount)
	assert.Equal(t, 64, cfg.Sampling.SamplesPerThread)
	assert.Equal(t, 97, cfg.Grid.MinReturnCount)
}

func TestValidateSimFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := NewSimFlags(fs)
	require.NoError(t, fs.Parse([]string{"-source", "s3"}))

	err := ValidateSimFlags(fs, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source must be one of")
}

func TestRun_VersionAndHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &out))
	assert.Contains(t, out.String(), AppName+" v")

	out.Reset()
	require.NoError(t, run([]string{"-help"}, &out))
	assert.Contains(t, out.String(), "USAGE:")
	assert.Contains(t, out.String(), "-min-return-start")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	err := run([]string{"-top", "a.csv", "-bottom", "b.csv", "-threads", "0"}, &bytes.Buffer{})

	var simErr *simerrors.SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, simerrors.ErrorCategoryConfiguration, simErr.Category)
}

func TestRun_MissingPriceFile(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{
		"-top", filepath.Join(dir, "nope.csv"),
		"-bottom", filepath.Join(dir, "nada.csv"),
		"-data-root", dir,
		"-output-csv", filepath.Join(dir, "out.csv"),
		"-log-level", "error",
	}, &bytes.Buffer{})

	var simErr *simerrors.SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, simerrors.ErrorCategoryData, simErr.Category)
}

func TestRun_SmallGridFromCSV(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "eth.csv")
	bottom := filepath.Join(dir, "btc.csv")
	writeCandles(t, top, 200, 100, 8)
	writeCandles(t, bottom, 200, 50, 1)

	outCSV := filepath.Join(dir, "out", "stats.csv")
	outXLSX := filepath.Join(dir, "out", "stats.xlsx")
	outJSON := filepath.Join(dir, "out", "run.json")

	var out bytes.Buffer
	err := run([]string{
		"-top", top,
		"-bottom", bottom,
		"-threads", "2",
		"-samples", "2",
		"-steps", "50",
		"-min-return-count", "2",
		"-ma-count", "2",
		"-seed", "7",
		"-output-csv", outCSV,
		"-output-xlsx", outXLSX,
		"-output-json", outJSON,
		"-log-level", "error",
	}, &out)
	require.NoError(t, err)

	content, err := os.ReadFile(outCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1+2*2*2)
	assert.Equal(t, strings.Join(reporting.ResultsHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1.0015,5,2,"), lines[1])

	assert.FileExists(t, outXLSX)

	raw, err := os.ReadFile(outJSON)
	require.NoError(t, err)
	var summary reporting.RunSummary
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 4, summary.GridPoints)
	assert.Equal(t, 8, summary.Rows)
	assert.Len(t, summary.Best, 4)
	assert.NotEmpty(t, summary.RunID)

	assert.Contains(t, out.String(), "PAIR MONTE CARLO")
}

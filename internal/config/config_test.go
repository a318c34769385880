package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
)

func validConfig() *SimulationConfig {
	cfg := Default()
	cfg.TopSource = "ETHUSDT"
	cfg.BottomSource = "BTCUSDT"
	return cfg
}

func TestDefault_MatchesReferenceRun(t *testing.T) {
	cfg := Default()

	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, 32, cfg.Sampling.NumThreads)
	assert.Equal(t, 64, cfg.Sampling.SamplesPerThread)
	assert.Equal(t, 525600, cfg.Sampling.NSteps)
	assert.Equal(t, 1.0015, cfg.Grid.MinReturnStart)
	assert.Equal(t, 97, cfg.Grid.MinReturnCount)
	assert.Equal(t, 5, cfg.Grid.MADurationStart)
	assert.Equal(t, 99, cfg.Grid.MADurationCount)
	assert.True(t, cfg.Bybit.End.After(cfg.Bybit.Start))
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PAIRSIM_SOURCE", "Postgres")
	t.Setenv("PAIRSIM_TOP", "ETHUSDT")
	t.Setenv("PAIRSIM_BOTTOM", "BTCUSDT")
	t.Setenv("PAIRSIM_THREADS", "4")
	t.Setenv("PAIRSIM_SAMPLES", "8")
	t.Setenv("PAIRSIM_STEPS", "1440")
	t.Setenv("PAIRSIM_MIN_RETURN_START", "1.01")
	t.Setenv("PAIRSIM_MA_COUNT", "3")
	t.Setenv("PAIRSIM_BYBIT_TESTNET", "true")
	t.Setenv("PAIRSIM_BYBIT_START", "2024-01-01")
	t.Setenv("PAIRSIM_POSTGRES_DSN", "postgres://localhost/pairsim")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Source)
	assert.Equal(t, "ETHUSDT", cfg.TopSource)
	assert.Equal(t, "BTCUSDT", cfg.BottomSource)
	assert.Equal(t, 4, cfg.Sampling.NumThreads)
	assert.Equal(t, 8, cfg.Sampling.SamplesPerThread)
	assert.Equal(t, 1440, cfg.Sampling.NSteps)
	assert.Equal(t, 1.01, cfg.Grid.MinReturnStart)
	assert.Equal(t, 3, cfg.Grid.MADurationCount)
	assert.True(t, cfg.Bybit.Testnet)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Bybit.Start)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("PAIRSIM_THREADS", "many")
	t.Setenv("PAIRSIM_MIN_RETURN_STEP", "tiny")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Sampling.NumThreads)
	assert.Equal(t, 0.0005, cfg.Grid.MinReturnStep)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PAIRSIM_BYBIT_CATEGORY=linear\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("PAIRSIM_BYBIT_CATEGORY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "linear", cfg.Bybit.Category)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	var simErr *simerrors.SimError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, simerrors.ErrorCategoryConfiguration, simErr.Category)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SimulationConfig)
		wantErr string
	}{
		{"valid", func(c *SimulationConfig) {}, ""},
		{"unknown source", func(c *SimulationConfig) { c.Source = "s3" }, "unknown source"},
		{"missing top", func(c *SimulationConfig) { c.TopSource = " " }, "top source is required"},
		{"missing bottom", func(c *SimulationConfig) { c.BottomSource = "" }, "bottom source is required"},
		{"postgres without dsn", func(c *SimulationConfig) { c.Source = SourcePostgres }, "postgres DSN"},
		{"bybit inverted range", func(c *SimulationConfig) {
			c.Source = SourceBybit
			c.Bybit.Start, c.Bybit.End = c.Bybit.End, c.Bybit.Start
		}, "must be after start"},
		{"zero threads", func(c *SimulationConfig) { c.Sampling.NumThreads = 0 }, "threads must be >= 1"},
		{"zero samples", func(c *SimulationConfig) { c.Sampling.SamplesPerThread = 0 }, "samples per thread"},
		{"negative steps", func(c *SimulationConfig) { c.Sampling.NSteps = -1 }, "steps must be >= 0"},
		{"min return at one", func(c *SimulationConfig) { c.Grid.MinReturnStart = 1 }, "min return start must be > 1"},
		{"empty grid", func(c *SimulationConfig) { c.Grid.MADurationCount = 0 }, "grid counts"},
		{"zero ma", func(c *SimulationConfig) { c.Grid.MADurationStart = 0 }, "ma duration start"},
		{"no csv output", func(c *SimulationConfig) { c.Output.CSVPath = "" }, "output csv path"},
		{"bad log format", func(c *SimulationConfig) { c.Log.Format = "xml" }, "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, simerrors.IsFatal(err))
		})
	}
}

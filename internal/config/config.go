package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
)

// EnvPrefix is prepended to every environment variable the simulator reads
const EnvPrefix = "PAIRSIM_"

// DateLayout is the layout of the Bybit start and end dates
const DateLayout = "2006-01-02"

// SourceKind selects where price series are loaded from
type SourceKind string

const (
	SourceCSV      SourceKind = "csv"
	SourcePostgres SourceKind = "postgres"
	SourceBybit    SourceKind = "bybit"
)

// SimulationConfig holds everything a simulation run needs
type SimulationConfig struct {
	Source       SourceKind
	TopSource    string
	BottomSource string
	DataRoot     string
	Exchange     string
	Interval     string
	OpenColumn   int

	Sampling SamplingSettings
	Grid     GridSettings
	Output   OutputSettings
	Storage  StorageSettings
	Bybit    BybitSettings
	Log      LogSettings

	MetricsAddr string
}

// SamplingSettings sizes each grid point
type SamplingSettings struct {
	NumThreads       int
	SamplesPerThread int
	NSteps           int
}

// GridSettings describes the min_return and ma_duration sequences
type GridSettings struct {
	MinReturnStart float64
	MinReturnStep  float64
	MinReturnCount int

	MADurationStart int
	MADurationStep  int
	MADurationCount int
}

// OutputSettings are the result files. Empty XLSX or JSON paths disable them.
type OutputSettings struct {
	CSVPath  string
	XLSXPath string
	JSONPath string
	TopN     int
}

// StorageSettings are optional result and price stores
type StorageSettings struct {
	PostgresDSN   string
	ClickHouseDSN string
}

// BybitSettings configure the kline download when Source is bybit
type BybitSettings struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Category  string
	Start     time.Time
	End       time.Time
}

// LogSettings are passed to the zap logger
type LogSettings struct {
	Level  string
	Format string
	Dir    string
}

// Default returns the configuration of the reference run
func Default() *SimulationConfig {
	return &SimulationConfig{
		Source:     SourceCSV,
		DataRoot:   "data",
		Exchange:   "bybit",
		Interval:   "1m",
		OpenColumn: 1,
		Sampling: SamplingSettings{
			NumThreads:       32,
			SamplesPerThread: 64,
			NSteps:           365 * 24 * 60,
		},
		Grid: GridSettings{
			MinReturnStart:  1.0015,
			MinReturnStep:   0.0005,
			MinReturnCount:  97,
			MADurationStart: 5,
			MADurationStep:  5,
			MADurationCount: 99,
		},
		Output: OutputSettings{
			CSVPath: "sample_return_stats.csv",
			TopN:    10,
		},
		Bybit: BybitSettings{
			Category: "spot",
			End:      time.Now().UTC().Truncate(24 * time.Hour),
			Start:    time.Now().UTC().Truncate(24*time.Hour).AddDate(-1, 0, 0),
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads envFile (or .env when empty) and applies PAIRSIM_* overrides on top of Default.
// A missing default .env is not an error, a missing explicit file is.
func Load(envFile string) (*SimulationConfig, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, simerrors.NewConfigurationError("config", "load", err.Error())
	}

	cfg := Default()
	cfg.Source = SourceKind(strings.ToLower(getEnv("SOURCE", string(cfg.Source))))
	cfg.TopSource = getEnv("TOP", cfg.TopSource)
	cfg.BottomSource = getEnv("BOTTOM", cfg.BottomSource)
	cfg.DataRoot = getEnv("DATA_ROOT", cfg.DataRoot)
	cfg.Exchange = getEnv("EXCHANGE", cfg.Exchange)
	cfg.Interval = getEnv("INTERVAL", cfg.Interval)
	cfg.OpenColumn = getEnvInt("OPEN_COLUMN", cfg.OpenColumn)

	cfg.Sampling.NumThreads = getEnvInt("THREADS", cfg.Sampling.NumThreads)
	cfg.Sampling.SamplesPerThread = getEnvInt("SAMPLES", cfg.Sampling.SamplesPerThread)
	cfg.Sampling.NSteps = getEnvInt("STEPS", cfg.Sampling.NSteps)

	cfg.Grid.MinReturnStart = getEnvFloat("MIN_RETURN_START", cfg.Grid.MinReturnStart)
	cfg.Grid.MinReturnStep = getEnvFloat("MIN_RETURN_STEP", cfg.Grid.MinReturnStep)
	cfg.Grid.MinReturnCount = getEnvInt("MIN_RETURN_COUNT", cfg.Grid.MinReturnCount)
	cfg.Grid.MADurationStart = getEnvInt("MA_START", cfg.Grid.MADurationStart)
	cfg.Grid.MADurationStep = getEnvInt("MA_STEP", cfg.Grid.MADurationStep)
	cfg.Grid.MADurationCount = getEnvInt("MA_COUNT", cfg.Grid.MADurationCount)

	cfg.Output.CSVPath = getEnv("OUTPUT_CSV", cfg.Output.CSVPath)
	cfg.Output.XLSXPath = getEnv("OUTPUT_XLSX", cfg.Output.XLSXPath)
	cfg.Output.JSONPath = getEnv("OUTPUT_JSON", cfg.Output.JSONPath)
	cfg.Output.TopN = getEnvInt("TOP_N", cfg.Output.TopN)

	cfg.Storage.PostgresDSN = getEnv("POSTGRES_DSN", cfg.Storage.PostgresDSN)
	cfg.Storage.ClickHouseDSN = getEnv("CLICKHOUSE_DSN", cfg.Storage.ClickHouseDSN)

	cfg.Bybit.APIKey = getEnv("BYBIT_API_KEY", cfg.Bybit.APIKey)
	cfg.Bybit.APISecret = getEnv("BYBIT_API_SECRET", cfg.Bybit.APISecret)
	cfg.Bybit.Testnet = getEnvBool("BYBIT_TESTNET", cfg.Bybit.Testnet)
	cfg.Bybit.Category = getEnv("BYBIT_CATEGORY", cfg.Bybit.Category)
	cfg.Bybit.Start = getEnvDate("BYBIT_START", cfg.Bybit.Start)
	cfg.Bybit.End = getEnvDate("BYBIT_END", cfg.Bybit.End)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Dir = getEnv("LOG_DIR", cfg.Log.Dir)

	cfg.MetricsAddr = getEnv("METRICS_ADDR", cfg.MetricsAddr)

	return cfg, nil
}

// Validate checks the configuration before any data is loaded
func (c *SimulationConfig) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch c.Source {
	case SourceCSV, SourcePostgres, SourceBybit:
	default:
		add("unknown source %q (csv, postgres, bybit)", c.Source)
	}
	if strings.TrimSpace(c.TopSource) == "" {
		add("top source is required")
	}
	if strings.TrimSpace(c.BottomSource) == "" {
		add("bottom source is required")
	}
	if c.Source == SourceCSV && c.OpenColumn < 0 {
		add("open column must be >= 0, got %d", c.OpenColumn)
	}
	if c.Source == SourcePostgres && c.Storage.PostgresDSN == "" {
		add("postgres source needs a postgres DSN")
	}
	if c.Source == SourceBybit && !c.Bybit.End.After(c.Bybit.Start) {
		add("bybit end %s must be after start %s", c.Bybit.End.Format(DateLayout), c.Bybit.Start.Format(DateLayout))
	}

	if c.Sampling.NumThreads < 1 {
		add("threads must be >= 1, got %d", c.Sampling.NumThreads)
	}
	if c.Sampling.SamplesPerThread < 1 {
		add("samples per thread must be >= 1, got %d", c.Sampling.SamplesPerThread)
	}
	if c.Sampling.NSteps < 0 {
		add("steps must be >= 0, got %d", c.Sampling.NSteps)
	}

	if c.Grid.MinReturnStart <= 1 {
		add("min return start must be > 1, got %g", c.Grid.MinReturnStart)
	}
	if c.Grid.MinReturnStep < 0 || c.Grid.MADurationStep < 0 {
		add("grid steps must be non-negative")
	}
	if c.Grid.MinReturnCount < 1 || c.Grid.MADurationCount < 1 {
		add("grid counts must be >= 1")
	}
	if c.Grid.MADurationStart < 1 {
		add("ma duration start must be >= 1, got %d", c.Grid.MADurationStart)
	}

	if c.Output.CSVPath == "" {
		add("output csv path is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		add("unknown log format %q (console, json)", c.Log.Format)
	}

	if len(problems) > 0 {
		return simerrors.NewConfigurationError("config", "validate", strings.Join(problems, "; "))
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvDate(key string, defaultVal time.Time) time.Time {
	if val, err := time.Parse(DateLayout, getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

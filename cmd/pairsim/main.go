package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ducminhle1904/pair-montecarlo/cmd/common"
	"github.com/ducminhle1904/pair-montecarlo/internal/backtest"
	"github.com/ducminhle1904/pair-montecarlo/internal/config"
	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/internal/exchange/bybit"
	"github.com/ducminhle1904/pair-montecarlo/internal/monitoring"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage/clickhouse"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage/memory"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage/postgres"
	"github.com/ducminhle1904/pair-montecarlo/pkg/data"
	"github.com/ducminhle1904/pair-montecarlo/pkg/orchestrator"
	"github.com/ducminhle1904/pair-montecarlo/pkg/reporting"
	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

const AppName = "pairsim"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// resources holds the connections opened for one run
type resources struct {
	pg *postgres.Pool
	ch *clickhouse.Conn
}

func (r *resources) Close() {
	if r.pg != nil {
		r.pg.Close()
	}
	if r.ch != nil {
		r.ch.Close()
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	flags := NewSimFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *flags.Common.Version {
		common.PrintVersion(stdout, AppName)
		return nil
	}
	if *flags.Common.Help {
		printUsage(stdout, fs)
		return nil
	}
	if err := ValidateSimFlags(fs, flags); err != nil {
		return err
	}

	cfg, err := common.LoadConfig(flags.Common)
	if err != nil {
		return err
	}
	flags.Apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	resolveOutputs(cfg)

	log, err := common.SetupLogger(cfg, AppName)
	if err != nil {
		return simerrors.NewConfigurationError("logger", "setup", err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := monitoring.NewRunStatus()
	if cfg.MetricsAddr != "" {
		srv := startMonitoringServer(cfg.MetricsAddr, status, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	res := &resources{}
	defer res.Close()
	if err := res.open(ctx, cfg, log); err != nil {
		return err
	}

	series, err := loadSeries(ctx, cfg, res, log)
	if err != nil {
		return simerrors.NewDataError("pairsim", "load series", err)
	}
	log.Info("pair series loaded",
		zap.String("top", cfg.TopSource),
		zap.String("bottom", cfg.BottomSource),
		zap.Int("ticks", series.Len()),
	)

	runID := uuid.NewString()
	results := memory.NewResultStore()
	sinks, csvWriter, err := buildSinks(cfg, res, results, runID)
	if err != nil {
		return err
	}

	samplerOpts := []backtest.SamplerOption{backtest.WithLogger(log)}
	if common.IsFlagSet(fs, "seed") {
		samplerOpts = append(samplerOpts, backtest.WithFixedSeed(*flags.Seed))
	}

	grid := orchestrator.ParameterGrid{
		MinReturnStart:  cfg.Grid.MinReturnStart,
		MinReturnStep:   cfg.Grid.MinReturnStep,
		MinReturnCount:  cfg.Grid.MinReturnCount,
		MADurationStart: cfg.Grid.MADurationStart,
		MADurationStep:  cfg.Grid.MADurationStep,
		MADurationCount: cfg.Grid.MADurationCount,
	}
	runner := orchestrator.NewGridRunner(
		orchestrator.SamplingConfig{
			NumThreads:       cfg.Sampling.NumThreads,
			SamplesPerThread: cfg.Sampling.SamplesPerThread,
			NSteps:           cfg.Sampling.NSteps,
		},
		orchestrator.WithRunID(runID),
		orchestrator.WithSinks(sinks...),
		orchestrator.WithRunnerLogger(log),
		orchestrator.WithStatus(status),
		orchestrator.WithSamplerOptions(samplerOpts...),
	)

	console := reporting.NewConsoleReporterWithWriter(stdout)
	console.PrintRunInfo("PAIR MONTE CARLO", [][2]string{
		{"Run ID", runID},
		{"Pair", fmt.Sprintf("%s / %s", cfg.TopSource, cfg.BottomSource)},
		{"Source", string(cfg.Source)},
		{"Ticks", fmt.Sprint(series.Len())},
		{"Grid points", fmt.Sprint(grid.Size())},
		{"Sampling", fmt.Sprintf("%d threads x %d samples x %d steps",
			cfg.Sampling.NumThreads, cfg.Sampling.SamplesPerThread, cfg.Sampling.NSteps)},
		{"Results CSV", csvWriter.Path()},
	})

	result, runErr := runner.Run(ctx, series, grid)
	if result == nil {
		return runErr
	}
	if err := writeReports(ctx, cfg, result, results, console, *flags.PrintRows, log); err != nil {
		log.Error("writing reports failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// open connects to the configured stores and applies their migrations
func (r *resources) open(ctx context.Context, cfg *config.SimulationConfig, log *zap.Logger) error {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return simerrors.NewStorageError("postgres", "connect", err)
		}
		r.pg = pool
		if err := pool.Migrate(ctx); err != nil {
			return simerrors.NewStorageError("postgres", "migrate", err)
		}
		log.Info("postgres connected")
	}

	if cfg.Storage.ClickHouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.Storage.ClickHouseDSN)
		if err != nil {
			return simerrors.NewStorageError("clickhouse", "connect", err)
		}
		r.ch = conn
		if err := conn.Migrate(ctx); err != nil {
			return simerrors.NewStorageError("clickhouse", "migrate", err)
		}
		log.Info("clickhouse connected")
	}
	return nil
}

func loadSeries(ctx context.Context, cfg *config.SimulationConfig, res *resources, log *zap.Logger) (*types.PairSeries, error) {
	top, bottom := cfg.TopSource, cfg.BottomSource

	var provider data.PriceProvider
	switch cfg.Source {
	case config.SourceCSV:
		format := data.DefaultCSVFormat
		format.OpenCol = cfg.OpenColumn
		provider = data.NewCSVProviderWithFormat(format)

		var err error
		if top, err = data.ResolveSource(cfg.DataRoot, cfg.Exchange, top, cfg.Interval); err != nil {
			return nil, err
		}
		if bottom, err = data.ResolveSource(cfg.DataRoot, cfg.Exchange, bottom, cfg.Interval); err != nil {
			return nil, err
		}
	case config.SourcePostgres:
		provider = postgres.NewPriceStore(res.pg)
	case config.SourceBybit:
		interval, err := bybit.ParseKlineInterval(cfg.Interval)
		if err != nil {
			return nil, err
		}
		client := bybit.NewClient(bybit.Config{
			APIKey:    cfg.Bybit.APIKey,
			APISecret: cfg.Bybit.APISecret,
			Testnet:   cfg.Bybit.Testnet,
		})
		provider = data.NewBybitProvider(client, cfg.Bybit.Category, interval, cfg.Bybit.Start, cfg.Bybit.End)
		log.Info("downloading klines",
			zap.String("environment", client.GetEnvironment()),
			zap.String("interval", string(interval)),
			zap.Time("start", cfg.Bybit.Start),
			zap.Time("end", cfg.Bybit.End),
		)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}

	log.Debug("loading pair series", zap.String("provider", provider.GetName()), zap.String("top", top), zap.String("bottom", bottom))
	return data.LoadPairSeries(ctx, provider, top, bottom)
}

// buildSinks returns the result sinks in write order: CSV, memory, then the optional stores
func buildSinks(cfg *config.SimulationConfig, res *resources, results *memory.ResultStore, runID string) ([]orchestrator.ResultSink, *reporting.ResultsCSVWriter, error) {
	csvWriter, err := reporting.NewResultsCSVWriter(cfg.Output.CSVPath)
	if err != nil {
		return nil, nil, simerrors.NewStorageError("csv", "open", err)
	}

	sinks := []orchestrator.ResultSink{
		csvWriter,
		orchestrator.NewStoreSink("memory", results, runID),
	}
	if res.pg != nil {
		sinks = append(sinks, orchestrator.NewStoreSink("postgres", postgres.NewResultStore(res.pg), runID))
	}
	if res.ch != nil {
		sinks = append(sinks, orchestrator.NewStoreSink("clickhouse", clickhouse.NewResultStore(res.ch), runID))
	}
	return sinks, csvWriter, nil
}

// resolveOutputs places bare output file names under results/<TOP>_<BOTTOM>
func resolveOutputs(cfg *config.SimulationConfig) {
	dir := reporting.DefaultOutputDir(cfg.TopSource, cfg.BottomSource)
	for _, path := range []*string{&cfg.Output.CSVPath, &cfg.Output.XLSXPath, &cfg.Output.JSONPath} {
		if *path != "" && filepath.Dir(*path) == "." {
			*path = filepath.Join(dir, *path)
		}
	}
}

func writeReports(ctx context.Context, cfg *config.SimulationConfig, result *orchestrator.RunResult,
	results *memory.ResultStore, console *reporting.ConsoleReporter, printRows bool, log *zap.Logger) error {
	rows, err := results.ListByRun(ctx, result.RunID)
	if err != nil {
		return err
	}
	points := reporting.Summarize(rows)

	if printRows {
		console.PrintResults(rows)
	}

	if cfg.Output.TopN > 0 && len(points) > 0 {
		console.PrintTopPoints(points, cfg.Output.TopN)
	}

	if cfg.Output.XLSXPath != "" {
		if err := reporting.WriteResultsXLSX(rows, cfg.Output.XLSXPath); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		log.Info("workbook written", zap.String("path", cfg.Output.XLSXPath))
	}

	if cfg.Output.JSONPath != "" {
		best := points
		if cfg.Output.TopN > 0 && len(best) > cfg.Output.TopN {
			best = best[:cfg.Output.TopN]
		}
		summary := reporting.RunSummary{
			RunID:        result.RunID,
			TopSource:    cfg.TopSource,
			BottomSource: cfg.BottomSource,
			StartedAt:    result.StartedAt,
			FinishedAt:   result.FinishedAt,
			GridPoints:   result.Points,
			Rows:         len(rows),
			Best:         best,
		}
		if err := reporting.WriteRunSummaryJSON(summary, cfg.Output.JSONPath); err != nil {
			return fmt.Errorf("write run summary: %w", err)
		}
		log.Info("run summary written", zap.String("path", cfg.Output.JSONPath))
	}

	log.Info("run finished",
		zap.String("run_id", result.RunID),
		zap.Int("points", result.Points),
		zap.Int("rows", len(rows)),
		zap.String("elapsed", common.FormatDuration(result.FinishedAt.Sub(result.StartedAt))),
	)
	return nil
}

func startMonitoringServer(addr string, status *monitoring.RunStatus, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/status", status)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("monitoring server failed", zap.Error(err))
		}
	}()
	log.Info("monitoring server started", zap.String("addr", addr))
	return srv
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ducminhle1904/pair-montecarlo/cmd/common"
	"github.com/ducminhle1904/pair-montecarlo/internal/config"
	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
	"github.com/ducminhle1904/pair-montecarlo/internal/exchange/bybit"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage"
	"github.com/ducminhle1904/pair-montecarlo/internal/storage/postgres"
	"github.com/ducminhle1904/pair-montecarlo/pkg/data"
)

const (
	AppName  = "fetch-prices"
	Exchange = "bybit"
)

// KlineLoader downloads every candle of a symbol
type KlineLoader interface {
	LoadKlines(ctx context.Context, symbol string) ([]bybit.Kline, error)
}

type fetchFlags struct {
	Common *common.CommonFlags

	Symbols     *string
	Category    *string
	Interval    *string
	Start       *string
	End         *string
	Period      *string
	PostgresDSN *string
	Testnet     *bool
}

func newFetchFlags(fs *flag.FlagSet) *fetchFlags {
	return &fetchFlags{
		Common: common.RegisterCommonFlags(fs),

		Symbols:     fs.String("symbols", "", "Comma separated symbols, e.g. ETHUSDT,BTCUSDT"),
		Category:    fs.String("category", "", "Bybit category: spot, linear, inverse"),
		Interval:    fs.String("interval", "", "Candle interval (1m, 5m, 15m, 1h, 4h, 1d)"),
		Start:       fs.String("start", "", "First day to download, YYYY-MM-DD"),
		End:         fs.String("end", "", "Day to stop at, YYYY-MM-DD"),
		Period:      fs.String("period", "", "Trailing period ending at -end, e.g. 30d or 52w; overrides -start"),
		PostgresDSN: fs.String("postgres-dsn", "", "Also upsert candles into Postgres"),
		Testnet:     fs.Bool("testnet", false, "Use the Bybit testnet"),
	}
}

// apply copies set flags into cfg
func (f *fetchFlags) apply(fs *flag.FlagSet, cfg *config.SimulationConfig) error {
	var applyErr error
	fs.Visit(func(fl *flag.Flag) {
		var err error
		switch fl.Name {
		case "category":
			cfg.Bybit.Category = *f.Category
		case "interval":
			cfg.Interval = *f.Interval
		case "start":
			cfg.Bybit.Start, err = time.Parse(config.DateLayout, *f.Start)
		case "end":
			cfg.Bybit.End, err = time.Parse(config.DateLayout, *f.End)
		case "postgres-dsn":
			cfg.Storage.PostgresDSN = *f.PostgresDSN
		case "testnet":
			cfg.Bybit.Testnet = *f.Testnet
		}
		if err != nil && applyErr == nil {
			applyErr = fmt.Errorf("-%s: %w", fl.Name, err)
		}
	})
	if applyErr != nil {
		return simerrors.NewConfigurationError("flags", "parse", applyErr.Error())
	}

	if *f.Period != "" {
		period, err := common.ParseDuration(*f.Period)
		if err != nil {
			return simerrors.NewConfigurationError("flags", "parse", fmt.Sprintf("-period: %v", err))
		}
		cfg.Bybit.Start = cfg.Bybit.End.Add(-period)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	flags := newFetchFlags(fs)
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
		fmt.Fprintf(stdout, "%s - download Bybit candles into the layout pairsim reads\n\n", AppName)
		fmt.Fprintf(stdout, "USAGE:\n  %s -symbols ETHUSDT,BTCUSDT -interval 1m -period 365d\n\nOPTIONS:\n", AppName)
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return nil
	}

	cfg, err := common.LoadConfig(flags.Common)
	if err != nil {
		return err
	}
	if err := flags.apply(fs, cfg); err != nil {
		return err
	}

	symbols := splitSymbols(*flags.Symbols)
	v := common.NewFlagValidator()
	if len(symbols) == 0 {
		v.AddError("symbols is required")
	}
	v.ValidateChoice("category", cfg.Bybit.Category, []string{"spot", "linear", "inverse"})
	if !cfg.Bybit.End.After(cfg.Bybit.Start) {
		v.AddError(fmt.Sprintf("end %s must be after start %s",
			cfg.Bybit.End.Format(config.DateLayout), cfg.Bybit.Start.Format(config.DateLayout)))
	}
	interval, err := bybit.ParseKlineInterval(cfg.Interval)
	if err != nil {
		v.AddError(err.Error())
	}
	if err := v.GetError(); err != nil {
		return err
	}

	log, err := common.SetupLogger(cfg, AppName)
	if err != nil {
		return simerrors.NewConfigurationError("logger", "setup", err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.PriceBarStore
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return simerrors.NewStorageError("postgres", "connect", err)
		}
		defer pool.Close()
		if err := pool.Migrate(ctx); err != nil {
			return simerrors.NewStorageError("postgres", "migrate", err)
		}
		store = postgres.NewPriceStore(pool)
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Bybit.APIKey,
		APISecret: cfg.Bybit.APISecret,
		Testnet:   cfg.Bybit.Testnet,
	})
	provider := data.NewBybitProvider(client, cfg.Bybit.Category, interval, cfg.Bybit.Start, cfg.Bybit.End)
	log.Info("fetching klines",
		zap.String("environment", client.GetEnvironment()),
		zap.Strings("symbols", symbols),
		zap.String("category", cfg.Bybit.Category),
		zap.String("interval", cfg.Interval),
		zap.Time("start", cfg.Bybit.Start),
		zap.Time("end", cfg.Bybit.End),
	)

	for _, symbol := range symbols {
		path := data.CandlesPath(cfg.DataRoot, Exchange, cfg.Bybit.Category, symbol, cfg.Interval)
		n, err := fetchSymbol(ctx, provider, store, symbol, path)
		if err != nil {
			return simerrors.NewNetworkError("fetch-prices", "fetch "+symbol, err)
		}
		log.Info("klines saved", zap.String("symbol", symbol), zap.Int("candles", n), zap.String("path", path))
		fmt.Fprintf(stdout, "%s: %d candles -> %s\n", symbol, n, path)
	}
	return nil
}

// fetchSymbol downloads symbol, writes it to path and, when store is set, upserts it
func fetchSymbol(ctx context.Context, loader KlineLoader, store storage.PriceBarStore, symbol, path string) (int, error) {
	klines, err := loader.LoadKlines(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if err := data.WriteKlinesCSV(path, klines); err != nil {
		return 0, err
	}
	if store != nil {
		if err := store.UpsertBars(ctx, klinesToBars(symbol, klines)); err != nil {
			return 0, fmt.Errorf("store bars: %w", err)
		}
	}
	return len(klines), nil
}

func klinesToBars(symbol string, klines []bybit.Kline) []storage.PriceBar {
	bars := make([]storage.PriceBar, len(klines))
	for i, k := range klines {
		bars[i] = storage.PriceBar{
			Symbol:   strings.ToUpper(symbol),
			OpenTime: k.StartTime.UTC(),
			Open:     decimal.NewFromFloat(k.OpenPrice),
			High:     decimal.NewFromFloat(k.HighPrice),
			Low:      decimal.NewFromFloat(k.LowPrice),
			Close:    decimal.NewFromFloat(k.ClosePrice),
			Volume:   decimal.NewFromFloat(k.Volume),
		}
	}
	return bars
}

func splitSymbols(s string) []string {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}

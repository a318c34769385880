package data

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/pair-montecarlo/internal/exchange/bybit"
)

// KlineFetcher fetches one page of klines, newest first
type KlineFetcher interface {
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
}

// BybitProvider downloads open prices for a symbol over a fixed time range
type BybitProvider struct {
	client   KlineFetcher
	category string
	interval bybit.KlineInterval
	start    time.Time
	end      time.Time
}

// NewBybitProvider creates a provider covering [start, end]
func NewBybitProvider(client KlineFetcher, category string, interval bybit.KlineInterval, start, end time.Time) *BybitProvider {
	return &BybitProvider{
		client:   client,
		category: category,
		interval: interval,
		start:    start,
		end:      end,
	}
}

// GetName returns the name of the data provider
func (p *BybitProvider) GetName() string {
	return "Bybit Provider"
}

// LoadPrices returns the open of every candle of symbol in the range
func (p *BybitProvider) LoadPrices(ctx context.Context, symbol string) ([]float64, error) {
	klines, err := p.LoadKlines(ctx, symbol)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, len(klines))
	for i, k := range klines {
		prices[i] = k.OpenPrice
	}
	return prices, nil
}

// LoadKlines pages backwards from end to start and returns the candles in ascending order
func (p *BybitProvider) LoadKlines(ctx context.Context, symbol string) ([]bybit.Kline, error) {
	if !p.end.After(p.start) {
		return nil, fmt.Errorf("invalid range: end %s is not after start %s", p.end, p.start)
	}

	seen := make(map[int64]bybit.Kline)
	cursor := p.end
	for cursor.After(p.start) || cursor.Equal(p.start) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start, end := p.start, cursor
		page, err := p.client.GetKlines(ctx, bybit.KlineParams{
			Category: p.category,
			Symbol:   symbol,
			Interval: p.interval,
			Start:    &start,
			End:      &end,
			Limit:    bybit.MaxKlineLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch %s klines before %s: %w", symbol, cursor.Format(time.RFC3339), err)
		}
		if len(page) == 0 {
			break
		}

		oldest := page[0].StartTime
		for _, k := range page {
			if k.StartTime.Before(p.start) || k.StartTime.After(p.end) {
				continue
			}
			seen[k.StartTime.UnixMilli()] = k
			if k.StartTime.Before(oldest) {
				oldest = k.StartTime
			}
		}

		next := oldest.Add(-time.Millisecond)
		if !next.Before(cursor) {
			break
		}
		cursor = next
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoPrices)
	}

	klines := make([]bybit.Kline, 0, len(seen))
	for _, k := range seen {
		klines = append(klines, k)
	}
	sort.Slice(klines, func(i, j int) bool { return klines[i].StartTime.Before(klines[j].StartTime) })
	return klines, nil
}

package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// KlineInterval represents the time interval for kline data
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval1h  KlineInterval = "60"
	Interval4h  KlineInterval = "240"
	Interval1d  KlineInterval = "D"
)

// MaxKlineLimit is the largest page Bybit returns per kline request
const MaxKlineLimit = 1000

// Duration returns the length of one candle, or zero for calendar intervals
func (i KlineInterval) Duration() time.Duration {
	if i == Interval1d {
		return 24 * time.Hour
	}
	minutes, err := strconv.Atoi(string(i))
	if err != nil {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// ParseKlineInterval accepts both the CLI form ("5m", "1h", "1d") and Bybit's own ("5", "60", "D")
func ParseKlineInterval(s string) (KlineInterval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1m", "1":
		return Interval1m, nil
	case "5m", "5":
		return Interval5m, nil
	case "15m", "15":
		return Interval15m, nil
	case "1h", "60":
		return Interval1h, nil
	case "4h", "240":
		return Interval4h, nil
	case "1d", "d":
		return Interval1d, nil
	default:
		return "", fmt.Errorf("unsupported kline interval %q", s)
	}
}

// Kline represents a single kline/candlestick data point
type Kline struct {
	StartTime  time.Time
	OpenPrice  float64
	HighPrice  float64
	LowPrice   float64
	ClosePrice float64
	Volume     float64
}

// KlineParams holds parameters for fetching kline data
type KlineParams struct {
	Category string        // "spot", "linear", "inverse"
	Symbol   string        // Trading pair symbol (e.g., "ETHUSDT")
	Interval KlineInterval // Time interval
	Start    *time.Time    // Start time (optional)
	End      *time.Time    // End time (optional)
	Limit    int           // Number of records to return (max 1000, default 200)
}

// GetKlines fetches one page of klines, newest first as Bybit returns them
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]Kline, error) {
	if params.Category == "" {
		params.Category = "spot"
	}
	if params.Limit == 0 {
		params.Limit = 200
	}
	if params.Limit > MaxKlineLimit {
		params.Limit = MaxKlineLimit
	}

	reqParams := map[string]interface{}{
		"category": params.Category,
		"symbol":   params.Symbol,
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}
	if params.Start != nil {
		reqParams["start"] = params.Start.UnixMilli()
	}
	if params.End != nil {
		reqParams["end"] = params.End.UnixMilli()
	}

	var klines []Kline
	err := retryWithConfig(ctx, c.retry, func() error {
		result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
		if err != nil {
			return err
		}
		klines, err = parseKlineResponse(result)
		return err
	})
	if err != nil {
		return nil, WrapAPIError("get klines", err)
	}

	return klines, nil
}

// parseKlineResponse parses the API response into Kline structs
func parseKlineResponse(response interface{}) ([]Kline, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type %T", response)
	}
	if err := ParseAPIError(serverResp.RetCode, serverResp.RetMsg); err != nil {
		return nil, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	klines := make([]Kline, 0, len(klineResult.List))
	for i, item := range klineResult.List {
		kline, err := parseKlineRow(item)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		klines = append(klines, kline)
	}

	return klines, nil
}

// parseKlineRow decodes [startTime, open, high, low, close, volume, turnover]
func parseKlineRow(item []string) (Kline, error) {
	if len(item) < 6 {
		return Kline{}, fmt.Errorf("expected at least 6 fields, got %d", len(item))
	}

	startMs, err := strconv.ParseInt(item[0], 10, 64)
	if err != nil {
		return Kline{}, fmt.Errorf("invalid start time %q: %w", item[0], err)
	}

	var values [5]float64
	for j := range values {
		values[j], err = strconv.ParseFloat(item[j+1], 64)
		if err != nil {
			return Kline{}, fmt.Errorf("invalid number %q: %w", item[j+1], err)
		}
	}

	return Kline{
		StartTime:  time.UnixMilli(startMs).UTC(),
		OpenPrice:  values[0],
		HighPrice:  values[1],
		LowPrice:   values[2],
		ClosePrice: values[3],
		Volume:     values[4],
	}, nil
}

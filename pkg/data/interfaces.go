package data

import (
	"context"
	"errors"
)

// ErrNoPrices is returned when a source yields no usable prices
var ErrNoPrices = errors.New("no prices loaded")

// PriceProvider loads an ordered series of prices for one asset
type PriceProvider interface {
	// LoadPrices returns the prices of source in chronological order
	LoadPrices(ctx context.Context, source string) ([]float64, error)

	// GetName returns the name of the data provider
	GetName() string
}

// CSVColumnMapping defines the column positions for a price CSV
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	MinColumns   int
	DateFormat   string
}

// Predefined CSV formats
var (
	// DefaultCSVFormat matches the candles.csv files written by fetch-prices
	DefaultCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		MinColumns:   2,
		DateFormat:   "2006-01-02 15:04:05",
	}
)

// CandleHeader is the header row of candles.csv files
var CandleHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

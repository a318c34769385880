package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVProvider implements PriceProvider for CSV files with a header row
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	if format.MinColumns <= format.OpenCol {
		format.MinColumns = format.OpenCol + 1
	}
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadPrices reads the open column of every row. Any malformed row fails the whole load.
func (p *CSVProvider) LoadPrices(_ context.Context, source string) ([]float64, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	defer file.Close()

	prices, err := p.readPrices(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return prices, nil
}

func (p *CSVProvider) readPrices(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPrices
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	var prices []float64
	lineNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		if len(record) < p.format.MinColumns {
			return nil, fmt.Errorf("insufficient columns at line %d (expected %d, got %d)",
				lineNum, p.format.MinColumns, len(record))
		}

		raw := strings.TrimSpace(record[p.format.OpenCol])
		open, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid open price %q at line %d: %w", raw, lineNum, err)
		}
		if open <= 0 {
			return nil, fmt.Errorf("non-positive open price %v at line %d", open, lineNum)
		}

		prices = append(prices, open)
	}

	if len(prices) == 0 {
		return nil, ErrNoPrices
	}
	return prices, nil
}

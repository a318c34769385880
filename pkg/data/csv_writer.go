package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ducminhle1904/pair-montecarlo/internal/exchange/bybit"
)

// WriteKlinesCSV writes klines in the candles.csv layout read by CSVProvider
func WriteKlinesCSV(path string, klines []bybit.Kline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CandleHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, k := range klines {
		record := []string{
			k.StartTime.UTC().Format(DefaultCSVFormat.DateFormat),
			strconv.FormatFloat(k.OpenPrice, 'f', -1, 64),
			strconv.FormatFloat(k.HighPrice, 'f', -1, 64),
			strconv.FormatFloat(k.LowPrice, 'f', -1, 64),
			strconv.FormatFloat(k.ClosePrice, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

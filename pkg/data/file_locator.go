package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ConvertIntervalToMinutes converts interval strings like "5m", "1h", "4h" to minute numbers
func ConvertIntervalToMinutes(interval string) string {
	if _, err := strconv.Atoi(interval); err == nil {
		return interval
	}

	interval = strings.ToLower(strings.TrimSpace(interval))
	if len(interval) < 2 {
		return interval
	}

	num, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return interval
	}

	switch interval[len(interval)-1:] {
	case "m":
		return strconv.Itoa(num)
	case "h":
		return strconv.Itoa(num * 60)
	case "d":
		return strconv.Itoa(num * 24 * 60)
	default:
		return interval
	}
}

// CandlesPath builds data/{exchange}/{category}/{symbol}/{interval}/candles.csv
func CandlesPath(dataRoot, exchange, category, symbol, interval string) string {
	return filepath.Join(dataRoot, exchange, category, strings.ToUpper(symbol),
		ConvertIntervalToMinutes(interval), "candles.csv")
}

// ResolveSource returns source unchanged when it is an existing file, otherwise
// treats it as a symbol and searches the spot and linear candle directories.
func ResolveSource(dataRoot, exchange, source, interval string) (string, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return source, nil
	}

	var attempted []string
	for _, category := range []string{"spot", "linear"} {
		path := CandlesPath(dataRoot, exchange, category, source, interval)
		attempted = append(attempted, path)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no data file for %s %s, tried %s", source, interval, strings.Join(attempted, ", "))
}

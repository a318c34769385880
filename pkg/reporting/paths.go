package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputDir returns results/{TOP}_{BOTTOM}
func DefaultOutputDir(topSymbol, bottomSymbol string) string {
	top := strings.ToUpper(strings.TrimSpace(symbolName(topSymbol)))
	bottom := strings.ToUpper(strings.TrimSpace(symbolName(bottomSymbol)))
	if top == "" {
		top = "UNKNOWN"
	}
	if bottom == "" {
		bottom = "UNKNOWN"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", top, bottom))
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// symbolName strips directories and extensions from file sources
func symbolName(source string) string {
	base := filepath.Base(source)
	if base == "candles.csv" {
		// data/bybit/spot/ETHUSDT/1/candles.csv
		base = filepath.Base(filepath.Dir(filepath.Dir(source)))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

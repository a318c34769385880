package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ducminhle1904/pair-montecarlo/internal/config"
	"github.com/ducminhle1904/pair-montecarlo/internal/logger"
)

// LoadConfig loads the environment configuration and applies the common flag overrides
func LoadConfig(flags *CommonFlags) (*config.SimulationConfig, error) {
	cfg, err := config.Load(*flags.EnvFile)
	if err != nil {
		return nil, err
	}

	if *flags.DataRoot != "" {
		cfg.DataRoot = *flags.DataRoot
	}
	if *flags.LogLevel != "" {
		cfg.Log.Level = *flags.LogLevel
	}
	if *flags.Verbose {
		cfg.Log.Level = "debug"
	}
	if *flags.LogFormat != "" {
		cfg.Log.Format = *flags.LogFormat
	}
	if *flags.LogDir != "" {
		cfg.Log.Dir = *flags.LogDir
	}
	return cfg, nil
}

// SetupLogger builds the zap logger for appName from cfg
func SetupLogger(cfg *config.SimulationConfig, appName string) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
		Name:   appName,
	})
}

// ParseDuration parses duration strings, accepting d and w suffixes on top of time.ParseDuration
func ParseDuration(str string) (time.Duration, error) {
	str = strings.ToLower(strings.TrimSpace(str))

	// Handle day suffix
	if strings.HasSuffix(str, "d") || strings.HasSuffix(str, "days") {
		str = strings.TrimSuffix(str, "days")
		str = strings.TrimSuffix(str, "d")
		days, err := strconv.Atoi(str)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix
	if strings.HasSuffix(str, "w") || strings.HasSuffix(str, "weeks") {
		str = strings.TrimSuffix(str, "weeks")
		str = strings.TrimSuffix(str, "w")
		weeks, err := strconv.Atoi(str)
		if err != nil {
			return 0, err
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(str)
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}

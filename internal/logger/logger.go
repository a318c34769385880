package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where and how the simulator logs
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Dir    string // when set, also write <Dir>/<Name>_<date>.log
	Name   string
}

// New builds a zap logger writing to stderr and, optionally, a per-session file
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(orDefault(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	switch strings.ToLower(orDefault(cfg.Format, "console")) {
	case "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	zcfg.OutputPaths = []string{"stderr"}

	if cfg.Dir != "" {
		path, err := sessionLogPath(cfg.Dir, orDefault(cfg.Name, "pairsim"))
		if err != nil {
			return nil, err
		}
		zcfg.OutputPaths = append(zcfg.OutputPaths, path)
	}

	return zcfg.Build()
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}

// sessionLogPath creates the log directory and returns today's log file for name
func sessionLogPath(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.log", name, time.Now().Format("2006-01-02"))
	return filepath.Join(dir, filename), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Package logutil builds the zap logger used by the dbscan command.
package logutil

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the command logger.
type LogConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // console or json
	Filename   string `yaml:"filename"`    // empty means stderr
	MaxSize    int    `yaml:"max-size"`    // megabytes before rotation
	MaxDays    int    `yaml:"max-days"`    // days to retain rotated files
	MaxBackups int    `yaml:"max-backups"` // rotated files to retain
}

// DefaultLogConfig logs info and above to stderr in console format.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:   "info",
		Format:  "console",
		MaxSize: 100,
	}
}

func (cfg *LogConfig) getLevel() (zap.AtomicLevel, error) {
	if cfg.Level == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return level, nil
}

func (cfg *LogConfig) getEncoder() (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	switch cfg.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg), nil
	case "json":
		return zapcore.NewJSONEncoder(encCfg), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, want console or json", cfg.Format)
	}
}

// getSyncer returns stderr, or a rotating file when Filename is set. The
// returned closer releases the file.
func (cfg *LogConfig) getSyncer() (zapcore.WriteSyncer, func() error) {
	if cfg.Filename == "" {
		return zapcore.Lock(os.Stderr), func() error { return nil }
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
	}
	return zapcore.AddSync(lj), lj.Close
}

// NewLogger builds a logger from cfg. The returned close function flushes
// buffered entries and releases the log file; call it before exiting.
func NewLogger(cfg LogConfig) (*zap.Logger, func(), error) {
	level, err := cfg.getLevel()
	if err != nil {
		return nil, nil, err
	}
	encoder, err := cfg.getEncoder()
	if err != nil {
		return nil, nil, err
	}
	syncer, closeFn := cfg.getSyncer()

	logger := zap.New(
		zapcore.NewCore(encoder, syncer, level),
		zap.AddStacktrace(zapcore.FatalLevel),
	)
	return logger, func() {
		_ = logger.Sync()
		_ = closeFn()
	}, nil
}

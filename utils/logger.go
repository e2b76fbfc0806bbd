package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger used across the API.
	Log = zap.NewNop()
	// SLog is the sugared variant for printf-style messages.
	SLog = Log.Sugar()
)

// InitLogger builds the process logger. Production mode emits JSON, otherwise
// a colored console encoder is used.
func InitLogger(production bool, level string) error {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger swaps the process logger (tests use zaptest/observer loggers).
func SetLogger(logger *zap.Logger) {
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered entries. Errors from syncing stdout are ignored.
func SyncLogger() {
	_ = Log.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// NewLogger console logger on stderr at level ("debug", "info", "warn", ...)
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// traceLevel gorm log level for DB_TRACE
func traceLevel(enabled bool) gormlogger.LogLevel {
	if enabled {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// Package logger builds the zap loggers used across goldedge.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger, or a colored console logger when
// debug is set. Timestamps are ISO 8601 in both modes so monitor and
// backtest output line up when interleaved.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Must is New for main paths where a broken logger should abort startup
func Must(debug bool) *zap.Logger {
	log, err := New(debug)
	if err != nil {
		panic(err)
	}
	return log
}

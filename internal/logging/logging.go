// Package logging builds the zap logger shared by the CLI and the library.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/config"
)

// NewLogger returns a production (JSON) or development (console) logger at the configured level
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("logging level %q: %w", cfg.Level, err)
		}
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// Must is NewLogger that falls back to a no-op logger on error
func Must(cfg config.LoggingConfig) *zap.Logger {
	l, err := NewLogger(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Package logging builds the process logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at debug level when dev is set and a JSON
// production logger otherwise. A non-empty level overrides either default.
func New(dev bool, level string) (*zap.SugaredLogger, error) {
	z := zap.NewProductionConfig()
	if dev {
		z = zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		z.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := z.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger and installs it as zap's global, which
// the response helpers log through.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

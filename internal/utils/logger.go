package utils

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide sugared logger. Callers own the instance
// and pass it down; nothing in the repo logs through a global.
func NewLogger(development bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

package core

import (
	"go.uber.org/zap"
)

func NewLogger(environment string) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if environment == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

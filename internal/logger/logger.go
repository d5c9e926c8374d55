package logger

import (
	"go.uber.org/zap"
)

// NewNamed returns a named logger configured for the environment:
// human-readable in development, JSON in anything else.
func NewNamed(env, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}

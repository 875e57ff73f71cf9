package logger

import (
	"fmt"

	"github.com/nekogravitycat/shareit-backend/internal/config"
	"go.uber.org/zap"
)

// NewNamed builds a zap logger for the given environment, named after the binary.
// Production uses JSON output at Info; everything else gets the development console encoder.
func NewNamed(env, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == config.PROD_STRING {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return log.Named(name), nil
}

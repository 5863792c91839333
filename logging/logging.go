// Package logging builds the zap logger used by every relay.
package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New returns a development logger for local environments and a production
// json logger otherwise.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	switch strings.ToLower(env) {
	case "development", "dev", "local":
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	return logger, nil
}

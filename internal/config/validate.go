package config

import (
	"context"
	"strings"

	"github.com/sandevgo/aimee/pkg/log"
)

type checker interface {
	Missing() []string
}

// Enforce verifies required settings are present. In production a
// missing value is fatal; in development it only warns so the service
// can run against partial configuration.
func Enforce(ctx context.Context, production bool, cfgs ...checker) {
	logger := log.FromCtx(ctx)

	var missing []string
	for _, c := range cfgs {
		missing = append(missing, c.Missing()...)
	}
	if len(missing) == 0 {
		return
	}

	joined := strings.Join(missing, ", ")
	if production {
		logger.Fatal().Str("missing", joined).Msg("required configuration is missing")
	}
	logger.Warn().Str("missing", joined).Msg("configuration incomplete, some features will be degraded")
}

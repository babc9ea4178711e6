package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aimee/pkg/log"
)

type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH"`
}

func NewDatabaseConfig(ctx context.Context) *DatabaseConfig {
	c := &DatabaseConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Database config")
	}
	if c.Path == "" {
		home, _ := os.UserHomeDir()
		c.Path = filepath.Join(home, ".aimee", "aimee.db")
	}
	return c
}

package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/pkg/log"
)

type AIConfig struct {
	Mode           string `env:"AI_MODE" envDefault:"testing"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	DeepseekAPIKey string `env:"DEEPSEEK_API_KEY"`
	QualityModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	CostModel      string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`
}

func NewAIConfig(ctx context.Context) *AIConfig {
	c := &AIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse AI config")
	}
	return c
}

func (c *AIConfig) ParsedMode(ctx context.Context) core.Mode {
	mode, err := core.ParseMode(c.Mode)
	if err != nil {
		log.FromCtx(ctx).Warn().Str("mode", c.Mode).Msg("invalid AI_MODE, defaulting to testing")
		return core.ModeTesting
	}
	return mode
}

func (c *AIConfig) Missing() []string {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.DeepseekAPIKey == "" {
		missing = append(missing, "DEEPSEEK_API_KEY")
	}
	return missing
}

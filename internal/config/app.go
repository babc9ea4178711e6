package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/aimee/pkg/log"
)

type AppConfig struct {
	Port        int    `env:"PORT" envDefault:"3000"`
	Environment string `env:"AIMEE_ENV" envDefault:"development"`

	// Hard budget for the SMS webhook; the reply race falls back to a
	// canned message when it expires.
	WebhookBudget time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"8s"`

	// Memory context size for prompt building
	MemoryContextSize int `env:"MEMORY_CONTEXT_SIZE" envDefault:"20"`

	// Monthly message quota for free-tier accounts
	FreeTierLimit int    `env:"FREE_TIER_LIMIT" envDefault:"50"`
	SignupURL     string `env:"SIGNUP_URL" envDefault:"https://aimee.chat/signup"`

	// Proactive sweep schedules (cron expressions)
	MorningCron  string `env:"MORNING_CRON" envDefault:"0 9 * * *"`
	EveningCron  string `env:"EVENING_CRON" envDefault:"0 19 * * *"`
	BirthdayCron string `env:"BIRTHDAY_CRON" envDefault:"0 8 * * *"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

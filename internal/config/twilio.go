package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/aimee/pkg/log"
)

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `env:"TWILIO_PHONE_NUMBER"`
}

func NewTwilioConfig(ctx context.Context) *TwilioConfig {
	c := &TwilioConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Twilio config")
	}
	return c
}

func (c *TwilioConfig) Missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.FromNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	return missing
}

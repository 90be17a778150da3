package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/loopbot/pkg/log"
)

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID,required,notEmpty"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN,required,notEmpty"`
	BaseURL    string `env:"TWILIO_API_URL" envDefault:"https://api.twilio.com"`
}

func NewTwilioConfig(ctx context.Context) *TwilioConfig {
	c := &TwilioConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Twilio config")
	}
	return c
}

package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/loopbot/pkg/log"
)

type HTTPConfig struct {
	Addr      string `env:"LOOP_HTTP_ADDR" envDefault:":8000"`
	PublicURL string `env:"LOOP_HTTP_PUBLIC_URL"`
	// Voice callers asking something out of scope are transferred here.
	// Empty means the call is ended politely instead.
	HumanAgentNumber string        `env:"LOOP_HUMAN_AGENT_NUMBER"`
	BodyLimitMB      int           `env:"LOOP_HTTP_BODY_LIMIT_MB" envDefault:"10"`
	AllowedOrigins   []string      `env:"LOOP_HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ReadTimeout      time.Duration `env:"LOOP_HTTP_READ_TIMEOUT" envDefault:"15s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}

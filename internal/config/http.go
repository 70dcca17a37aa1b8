package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/geodrop/pkg/log"
)

type HTTPConfig struct {
	Addr           string        `env:"GEODROP_HTTP_ADDR" envDefault:"127.0.0.1:8087"`
	RequestTimeout time.Duration `env:"GEODROP_HTTP_TIMEOUT" envDefault:"30s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}

package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

// PositionConfig mirrors the browser geolocation options plus the staleness
// policy for the last known fix.
type PositionConfig struct {
	HighAccuracy bool          `env:"GEODROP_HIGH_ACCURACY" envDefault:"true"`
	Timeout      time.Duration `env:"GEODROP_POSITION_TIMEOUT" envDefault:"10s"`
	MaximumAge   time.Duration `env:"GEODROP_POSITION_MAX_AGE" envDefault:"60s"`
	StaleAfter   time.Duration `env:"GEODROP_STALE_AFTER" envDefault:"5m"`

	// Optional recorded track replayed into the position feed
	TrackFile      string        `env:"GEODROP_TRACK_FILE"`
	ReplayInterval time.Duration `env:"GEODROP_REPLAY_INTERVAL" envDefault:"1s"`
}

func NewPositionConfig(ctx context.Context) *PositionConfig {
	c := &PositionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Position config")
	}
	return c
}

func (c PositionConfig) GetPositionOptions() core.PositionOptions {
	return core.PositionOptions{
		HighAccuracy: c.HighAccuracy,
		Timeout:      c.Timeout,
		MaximumAge:   c.MaximumAge,
	}
}

func (c PositionConfig) GetStaleAfter() time.Duration {
	return c.StaleAfter
}

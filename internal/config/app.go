package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

type AppConfig struct {
	RuntimePath string `env:"GEODROP_RUNTIME_PATH" envDefault:".geodrop"`

	// Persistence surface
	StorageBackend string `env:"GEODROP_STORAGE" envDefault:"sqlite"`
	StorageKey     string `env:"GEODROP_STORAGE_KEY" envDefault:"jetstreamin-ar-content"`

	// Transport Flags
	EnableCLI      bool `env:"GEODROP_ENABLE_CLI" envDefault:"true"`
	EnableHTTP     bool `env:"GEODROP_ENABLE_HTTP" envDefault:"false"`
	EnableTelegram bool `env:"GEODROP_ENABLE_TELEGRAM" envDefault:"false"`

	// Initial view mode
	Mode string `env:"GEODROP_MODE" envDefault:"scan"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "geodrop.db")
}

func (c AppConfig) GetContentFilePath() string {
	return filepath.Join(c.RuntimePath, "content.json")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetStorageBackend() string {
	return c.StorageBackend
}

func (c AppConfig) GetStorageKey() string {
	if c.StorageKey == "" {
		return core.DefaultStorageKey
	}
	return c.StorageKey
}

func (c AppConfig) GetMode() core.ViewMode {
	return core.ViewMode(c.Mode)
}

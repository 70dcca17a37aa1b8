package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/geodrop/internal/config"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/providers/position"
	"github.com/sandevgo/geodrop/internal/service/command"
	"github.com/sandevgo/geodrop/internal/service/content"
	"github.com/sandevgo/geodrop/internal/service/geofence"
	"github.com/sandevgo/geodrop/internal/service/tracker"
	"github.com/sandevgo/geodrop/internal/service/ui"
	"github.com/sandevgo/geodrop/internal/storage/file"
	"github.com/sandevgo/geodrop/internal/storage/sqlite"
	"github.com/sandevgo/geodrop/internal/transport/api"
	"github.com/sandevgo/geodrop/internal/transport/cli"
	"github.com/sandevgo/geodrop/internal/transport/telegram"
	"github.com/sandevgo/geodrop/pkg/log"
	"github.com/sandevgo/geodrop/pkg/srv"
)

// App is the wired geofence core shared by every command.
type App struct {
	AppCfg *config.AppConfig
	PosCfg *config.PositionConfig

	Repo    *content.Repository
	Feed    *position.Feed
	Tracker *tracker.Tracker
	Store   *geofence.Store
	Router  *command.Router

	// services are shut down in reverse order
	services []srv.Service
}

// NewApp loads configuration, opens storage and starts the store and the
// tracker synchronously so that content is loaded before any transport runs.
func NewApp(ctx context.Context) *App {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	posCfg := config.NewPositionConfig(ctx)

	app := &App{AppCfg: appCfg, PosCfg: posCfg}

	// 2. Storage
	kv, closers, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	app.services = append(app.services, closers...)

	app.Repo = content.NewRepository(kv, appCfg.GetStorageKey())
	app.Repo.OnPersistError(func(ctx context.Context, err error) {
		log.FromCtx(ctx).Error().Err(err).Msg("AR content is kept in memory only until restart")
	})

	// 3. Position pipeline
	app.Feed = position.NewFeed(ctx)
	app.Tracker = tracker.NewTracker(app.Feed, posCfg)
	app.Store = geofence.NewStore(app.Repo, app.Tracker, appCfg.GetMode())

	if err := app.Store.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start geofence store")
	}
	app.services = append(app.services, stopper(app.Store))

	if err := app.Tracker.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start location tracker")
	}
	app.services = append(app.services, stopper(app.Tracker))

	// 4. Commands
	app.Router = command.New(command.NewCommands(app.Store, app.Tracker, app.Feed))

	return app
}

// Services returns the background services plus every enabled transport.
func (a *App) Services(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := append([]srv.Service{}, a.services...)

	if a.PosCfg.TrackFile != "" {
		services = append(services, position.NewReplay(a.Feed, a.PosCfg.TrackFile, a.PosCfg.ReplayInterval))
	}

	transports, err := a.initTransports(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	return append(services, transports...)
}

// Close shuts down the core for one-shot commands.
func (a *App) Close(ctx context.Context) {
	for i := len(a.services) - 1; i >= 0; i-- {
		if err := a.services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", a.services[i])
		}
	}
}

func (a *App) initTransports(ctx context.Context) ([]srv.Service, error) {
	var services []srv.Service

	if a.AppCfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		handler := api.NewHandler(a.Store, a.Feed, a.Repo)
		services = append(services, api.NewServer(httpCfg.Addr, httpCfg.RequestTimeout, handler))
	}

	if a.AppCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.Router, a.Feed)
		if err != nil {
			return nil, err
		}
		a.Store.AddRenderer(bot)
		a.Tracker.OnError(bot.RenderLocationError(ctx))
		services = append(services, bot)
	}

	if a.AppCfg.EnableCLI {
		rl, err := cli.NewReadLine(a.Router, a.AppCfg.GetHistoryPath())
		if err != nil {
			return nil, err
		}
		renderer := ui.NewConsoleRenderer(rl.Stdout())
		a.Store.AddRenderer(renderer)
		a.Tracker.OnError(renderer.RenderLocationError)
		services = append(services, rl)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no transport enabled, set GEODROP_ENABLE_CLI, GEODROP_ENABLE_HTTP or GEODROP_ENABLE_TELEGRAM")
	}
	return services, nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.KVStore, []srv.Service, error) {
	switch cfg.GetStorageBackend() {
	case config.StorageFile:
		log.FromCtx(ctx).Debug().Str("path", cfg.GetContentFilePath()).Msg("using file storage")
		return file.NewKVStore(cfg.GetContentFilePath()), nil, nil
	case config.StorageSQLite:
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, nil, err
		}
		log.FromCtx(ctx).Debug().Str("path", cfg.GetDatabasePath()).Msg("using sqlite storage")
		return sqlite.NewKVRepo(db), []srv.Service{srv.NewCleanup(db.Close)}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.GetStorageBackend())
	}
}

// stopper adapts a component whose Start already ran to srv.Service.
func stopper(s interface {
	Shutdown(ctx context.Context) error
}) srv.Service {
	return stopOnly{s}
}

type stopOnly struct {
	s interface {
		Shutdown(ctx context.Context) error
	}
}

func (o stopOnly) Start(ctx context.Context) error    { return nil }
func (o stopOnly) Shutdown(ctx context.Context) error { return o.s.Shutdown(ctx) }

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

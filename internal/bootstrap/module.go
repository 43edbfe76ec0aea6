package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"carescore/internal/bootstrap/config"
	"carescore/internal/bootstrap/database"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/domain/rating"
	cacheinfra "carescore/internal/infrastructure/cache"
	sqliterepo "carescore/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "carescore/internal/infrastructure/persistence/sqlite/uow"
	"carescore/internal/ports"
	ratinguc "carescore/internal/usecase/rating"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideProfile),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewFacilityRepository,
			fx.As(new(ports.FacilityRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideProfile(ctx context.Context, cfg config.Config) (*rating.Profile, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	profile, err := rating.LoadProfile(cfg.Rating.ProfileFile)
	if err != nil {
		return nil, err
	}
	if cfg.Rating.ProfileFile != "" {
		logging.Info(logCtx, "rating profile loaded", slog.String("path", cfg.Rating.ProfileFile))
	}
	return profile, nil
}

func provideService(cfg config.Config, profile *rating.Profile, repo ports.FacilityRepository, uow ports.UnitOfWork, cache ports.Cache) *ratinguc.Service {
	return ratinguc.NewService(repo, uow, cache, profile, ratinguc.Options{
		DefaultMode: cfg.Rating.Mode,
		JitterSeed:  cfg.Rating.JitterSeed,
	})
}

package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mesto/internal/auth"
	"mesto/internal/cache"
	"mesto/internal/config"
	"mesto/internal/db"
	"mesto/internal/events"
	"mesto/internal/repository"
	"mesto/internal/service"
)

// App owns every long-lived dependency of the process. Nothing is global:
// commands build one App and pass its parts down explicitly.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Cache     *cache.Client
	Publisher events.Publisher
	JWT       *auth.JWTService
	Tokens    *auth.TokenStore

	Users repository.UserRepository
	Cards repository.CardRepository

	AuthService service.AuthService
	UserService service.UserService
	CardService service.CardService

	closers []func() error
}

// New connects the configured store, cache and event bus and builds the services.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Cache = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := a.Cache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, caching and token revocation disabled", zap.Error(err))
	}
	a.closers = append(a.closers, a.Cache.Close)

	a.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		nats, err := events.NewNatsPublisher(cfg.NATSURL, log)
		if err != nil {
			log.Warn("nats unavailable, events disabled", zap.Error(err))
		} else {
			a.Publisher = nats
			a.closers = append(a.closers, nats.Close)
		}
	}

	a.JWT = auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	a.Tokens = auth.NewTokenStore(a.Cache)

	a.AuthService = service.NewAuthService(a.Users, a.JWT, a.Tokens, a.Publisher, cfg.BcryptCost)
	a.UserService = service.NewUserService(a.Users, a.Cache)
	a.CardService = service.NewCardService(a.Cards, a.Publisher)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("mongo init: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		if err := repository.EnsureIndexes(ctx, database); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		a.Users = repository.NewMongoUserRepository(database)
		a.Cards = repository.NewMongoCardRepository(database)

	case config.DriverMySQL, config.DriverSQLite:
		open, dsn := db.NewMySQL, cfg.MySQLDSN
		if cfg.StoreDriver == config.DriverSQLite {
			open, dsn = db.NewSQLite, cfg.SQLitePath
		}
		gormDB, err := open(dsn)
		if err != nil {
			return fmt.Errorf("%s init: %w", cfg.StoreDriver, err)
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		if err := repository.AutoMigrate(gormDB); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		a.Users = repository.NewUserRepository(gormDB)
		a.Cards = repository.NewCardRepository(gormDB)

	case config.DriverMemory:
		a.Users = repository.NewMemoryUserRepository()
		a.Cards = repository.NewMemoryCardRepository()

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	a.Log.Info("store ready", zap.String("driver", cfg.StoreDriver))
	return nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/pkg/adapters/file"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/observability"
	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds everything a command needs: the engine, the sessions and the
// metrics registry, all built from one Config.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *tally.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// Open builds an App. The caller must Close it.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	store, locker, closer, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	app.Metrics, err = observability.NewMetrics(app.Registry)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app.Engine = tally.New(
		tally.WithMaxDigits(cfg.MaxDigits),
		tally.WithDivisionScale(cfg.DivisionScale),
		tally.WithLogger(logger),
		tally.WithLifecycleHooks(domain.CombineHooks(
			observability.LogHooks(logger),
			app.Metrics.Hooks(),
		)),
	)

	store = middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewMetricsMiddleware(app.Metrics.StoreLatency),
	)

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}
	app.Sessions = session.NewManager(store, sessionOpts...)

	return app, nil
}

// Close releases the store connection, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore builds the state store selected by cfg. Redis also provides a
// distributed locker sharing the same client.
func OpenStore(cfg config.StoreConfig) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.NewStore(), nil, nil, nil
	case config.DriverFile:
		return file.New(cfg.Dir), nil, nil, nil
	case config.DriverRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		locker := redis.NewLocker(store.Client(), store.Prefix())
		return store, locker, store.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

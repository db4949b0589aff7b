// Package app собирает клиент fishlog из конфигурации:
// хранилище сессии, фильтр учетных данных, API клиент и Store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/fishlog/internal/client/api"
	"github.com/iudanet/fishlog/internal/client/auth"
	"github.com/iudanet/fishlog/internal/client/credentials"
	"github.com/iudanet/fishlog/internal/client/httplog"
	"github.com/iudanet/fishlog/internal/client/storage"
	"github.com/iudanet/fishlog/internal/client/storage/boltdb"
	"github.com/iudanet/fishlog/internal/client/storage/memory"
	"github.com/iudanet/fishlog/internal/client/storage/redisstore"
	"github.com/iudanet/fishlog/internal/client/storage/sealed"
	"github.com/iudanet/fishlog/internal/client/storage/sqlite"
	"github.com/iudanet/fishlog/internal/config"
	"github.com/iudanet/fishlog/internal/lib/sl"
)

// App - собранный клиент
type App struct {
	Config   *config.Config
	Store    *auth.Store
	Client   *api.Client
	Storage  storage.SessionStorage
	Registry *prometheus.Registry
	logger   *slog.Logger
}

// Options - необязательные зависимости App
type Options struct {
	Logger    *slog.Logger
	Navigator auth.Navigator
	// Base - транспорт под фильтром; по умолчанию http.DefaultTransport
	Base http.RoundTripper
}

// Open открывает хранилище, собирает цепочку транспорта и восстанавливает сессию
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	origin, err := cfg.ServerOrigin()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := credentials.NewMetrics(registry)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	// filter -> httplog -> base: в лог попадает уже итоговый запрос
	filter := &credentials.Transport{
		Base:    httplog.New(opts.Base, logger),
		Origin:  origin,
		Metrics: metrics,
		Logger:  logger,
	}
	client := api.NewClient(cfg.ServerURL,
		api.WithTransport(filter),
		api.WithTimeout(cfg.HTTPTimeout),
	)

	storeOpts := []auth.Option{auth.WithLogger(logger)}
	if opts.Navigator != nil {
		storeOpts = append(storeOpts, auth.WithNavigator(opts.Navigator))
	}
	store := auth.NewStore(client, st, storeOpts...)
	// Store создается после клиента, поэтому источник токена подключаем последним
	filter.Source = store

	store.Restore(ctx)

	return &App{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Storage:  st,
		Registry: registry,
		logger:   logger,
	}, nil
}

// OpenStorage открывает хранилище сессии по cfg.Storage.
// Если задана passphrase, значения шифруются перед записью.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.SessionStorage, error) {
	var (
		st  storage.SessionStorage
		err error
	)

	switch cfg.Storage.Kind {
	case config.StorageBoltDB:
		st, err = boltdb.New(ctx, cfg.Storage.Path)
	case config.StorageSQLite:
		st, err = sqlite.New(ctx, cfg.Storage.Path)
	case config.StorageRedis:
		st, err = redisstore.New(ctx, redisstore.Options{
			Addr:        cfg.Storage.Redis.Addr,
			Username:    cfg.Storage.Redis.Username,
			Password:    cfg.Storage.Redis.Password,
			DB:          cfg.Storage.Redis.DB,
			Prefix:      cfg.Storage.Redis.Prefix,
			DialTimeout: cfg.Storage.Redis.DialTimeout,
		})
	case config.StorageMemory:
		st = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage kind %q", cfg.Storage.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Kind, err)
	}

	if cfg.Storage.Passphrase == "" {
		return st, nil
	}

	sealedStorage, err := sealed.NewWithPassphrase(st, cfg.Storage.Passphrase, []byte(cfg.Storage.Salt))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return sealedStorage, nil
}

// Close сбрасывает метрики в textfile (если настроен) и закрывает хранилище
func (a *App) Close() error {
	var errs []error

	if a.Config.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(a.Config.MetricsTextfile, a.Registry); err != nil {
			a.logger.Warn("failed to write metrics textfile", "path", a.Config.MetricsTextfile, sl.Err(err))
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	return errors.Join(errs...)
}

// Package authkit manages client-side authentication sessions: login
// flows, token persistence, scheduled refresh, permission evaluation and
// navigation guarding, against a configurable auth API.
package authkit

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/adapters/httptransport"
	"github.com/stardyn/authkit/internal/adapters/memstore"
	"github.com/stardyn/authkit/internal/adapters/pgstore"
	"github.com/stardyn/authkit/internal/adapters/redisstore"
	"github.com/stardyn/authkit/internal/clock"
	"github.com/stardyn/authkit/internal/domain/access"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/guards"
	"github.com/stardyn/authkit/internal/ports"
	"github.com/stardyn/authkit/internal/service"
)

// Options carries the collaborator overrides for New. Navigator is the
// only required field; everything else has a working default derived
// from the configuration.
type Options struct {
	// Navigator performs the redirects the guards and logout flow issue.
	Navigator ports.Navigator
	// Transport overrides the default HTTP transport. When the refresh
	// flow is enabled it must implement ports.RefreshTransport.
	Transport ports.Transport
	// Storage overrides the backend selected by the configuration.
	Storage ports.Storage
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Kit bundles the wired session manager, guards and evaluator.
type Kit struct {
	Session         *service.SessionService
	AuthGuard       *guards.AuthGuard
	PermissionGuard *guards.PermissionGuard
	LoginGuard      *guards.LoginGuard
	Evaluator       access.Evaluator
	Config          config.Config

	closers []func() error
}

// New wires a Kit from configuration. overrides is merged with the
// documented defaults, so a zero Config is a valid starting point.
func New(ctx context.Context, overrides config.Config, opts Options) (*Kit, error) {
	cfg := config.New(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Navigator == nil {
		return nil, apperrors.Config("navigator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	kit := &Kit{Config: cfg}

	storage := opts.Storage
	if storage == nil {
		var err error
		storage, err = kit.openStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	transport := opts.Transport
	if transport == nil {
		transport = defaultTransport(cfg, opts.Logger)
	}

	session, err := service.NewSessionService(service.Options{
		Config:    cfg,
		Transport: transport,
		Storage:   storage,
		Navigator: opts.Navigator,
		Logger:    opts.Logger,
		Clock:     opts.Clock,
	})
	if err != nil {
		kit.Close()
		return nil, err
	}

	evaluator := access.Evaluator{Active: cfg.PermissionEngineActive}

	kit.Session = session
	kit.Evaluator = evaluator
	kit.AuthGuard = guards.NewAuthGuard(cfg, session, opts.Navigator, opts.Logger)
	kit.PermissionGuard = guards.NewPermissionGuard(cfg, session, evaluator, opts.Navigator, opts.Logger)
	kit.LoginGuard = guards.NewLoginGuard(cfg, session, opts.Navigator, opts.Logger)
	return kit, nil
}

// Close releases the storage backends the Kit opened itself. Storage
// supplied through Options is the caller's to close.
func (k *Kit) Close() error {
	var first error
	for _, fn := range k.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (k *Kit) openStorage(ctx context.Context, cfg config.Config) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return memstore.New(), nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "connect redis storage")
		}
		k.closers = append(k.closers, client.Close)
		return redisstore.NewWithPrefix(client, cfg.Storage.KeyPrefix), nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Storage.Postgres.DSN())
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "connect postgres storage")
		}
		k.closers = append(k.closers, func() error {
			pool.Close()
			return nil
		})
		return pgstore.New(pool, cfg.Storage.KeyPrefix), nil

	default:
		return nil, apperrors.Configf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func defaultTransport(cfg config.Config, logger *slog.Logger) ports.Transport {
	if cfg.UseRefreshToken {
		return httptransport.NewWithRefresh(cfg.BaseURL, httptransport.WithLogger(logger))
	}
	return httptransport.New(cfg.BaseURL, httptransport.WithLogger(logger))
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/parkops/reserve-ui-api/config"
	"github.com/parkops/reserve-ui-api/internal/adapters/memory"
	"github.com/parkops/reserve-ui-api/internal/adapters/postgres"
	"github.com/parkops/reserve-ui-api/internal/adapters/redis"
	"github.com/parkops/reserve-ui-api/internal/devseed"
	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	apperrors "github.com/parkops/reserve-ui-api/internal/errors"
	"github.com/parkops/reserve-ui-api/internal/ports"
	"github.com/parkops/reserve-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Sessions ports.SessionRegistry
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient goredis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the credential store and session registry selected by
// configuration into the auth service, and seeds the root record.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	authCfg := deps.Config.Auth

	store, err := buildCredentialStore(deps, authCfg)
	if err != nil {
		return ServiceContainer{}, err
	}

	sessions, err := buildSessionRegistry(deps, authCfg)
	if err != nil {
		return ServiceContainer{}, err
	}

	if seedErr := seedRoot(ctx, store, authCfg); seedErr != nil {
		return ServiceContainer{}, fmt.Errorf("seed root principal: %w", seedErr)
	}

	if deps.Config.IsDev {
		if devErr := devseed.Seed(ctx, store, logger); devErr != nil {
			return ServiceContainer{}, fmt.Errorf("seed dev principals: %w", devErr)
		}
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Store:            store,
		Sessions:         sessions,
		Logger:           logger,
		LockoutThreshold: authCfg.MaxLoginFailures,
	})

	return ServiceContainer{Auth: auth, Sessions: sessions}, nil
}

func buildCredentialStore(deps *ServiceDeps, authCfg config.AuthConfig) (ports.CredentialStore, error) {
	switch authCfg.StoreMode {
	case config.StoreModePostgres:
		if deps.DB == nil {
			return nil, errors.New("postgres store mode requires a database connection")
		}
		return postgres.NewCredentialStore(deps.DB,
			postgres.WithLockoutThreshold(authCfg.MaxLoginFailures)), nil
	case config.StoreModeMemory:
		return memory.NewCredentialStore(
			memory.WithLockoutThreshold(authCfg.MaxLoginFailures)), nil
	default:
		return nil, fmt.Errorf("unknown store mode %q", authCfg.StoreMode)
	}
}

func buildSessionRegistry(deps *ServiceDeps, authCfg config.AuthConfig) (ports.SessionRegistry, error) {
	switch authCfg.SessionBackend {
	case config.SessionBackendMemory:
		return memory.NewSessionRegistry(
			memory.WithIdleTimeout(authCfg.SessionIdleTimeout)), nil
	case config.SessionBackendRedis:
		if deps.RedisClient == nil {
			return nil, errors.New("redis session backend requires a redis connection")
		}
		return redis.NewSessionRegistry(deps.RedisClient,
			redis.WithIdleTimeout(authCfg.SessionIdleTimeout)), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", authCfg.SessionBackend)
	}
}

// seedRoot ensures the root super-administrator credential exists. The
// digest of the bootstrap password is stored; an existing record is left
// untouched.
func seedRoot(ctx context.Context, store ports.CredentialStore, authCfg config.AuthConfig) error {
	if pg, ok := store.(*postgres.CredentialStore); ok {
		return pg.EnsureRoot(ctx, authCfg.RootDisplayName, domainauth.Digest(authCfg.RootBootstrapPassword))
	}

	err := store.Enroll(ctx, ports.EnrollInput{
		Kind:        domainauth.KindRoot,
		ID:          domainauth.RootIdentifier,
		DisplayName: authCfg.RootDisplayName,
		Role:        domainauth.RoleAdmin,
		Password:    authCfg.RootBootstrapPassword,
	})
	if err != nil && !apperrors.IsConflict(err) {
		return err
	}
	return nil
}

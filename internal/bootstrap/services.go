package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parkops/reserve-ui-api/config"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// ServiceOrchestrationConfig groups dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service
// fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(context.Background(), server, logger)
		})
	}

	if enabled[config.ServiceModeSessionReaper] {
		interval := cfg.Config.Reaper.Interval
		g.Go(func() error {
			return runSessionReaper(gctx, cfg.Services.Sessions, interval, logger)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runSessionReaper periodically sweeps idle sessions out of the registry.
// With the Redis backend the sweep is a no-op; keys expire server-side.
func runSessionReaper(ctx context.Context, sessions ports.SessionRegistry, interval time.Duration, logger *slog.Logger) error {
	logger.InfoContext(ctx, "session reaper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "session reaper stopped")
			return nil
		case <-ticker.C:
			removed, err := sessions.Sweep(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "session sweep failed", "err", err)
				continue
			}
			if removed > 0 {
				logger.InfoContext(ctx, "swept idle sessions", "removed", removed)
			}
		}
	}
}

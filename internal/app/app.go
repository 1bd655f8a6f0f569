package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/http"
	"github.com/yungbote/peerpath/internal/observability"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

const serviceName = "peerpath"

// Version is stamped at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      config.Config
	Clients  Clients
	Services Services
	Server   *http.Server

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("app: logger required")
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Env,
		Version:     Version,
		Tracing:     cfg.Tracing,
	})

	clients, err := wireClients(cfg, log)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	services := wireServices(cfg, log, clients)
	server := wireServer(cfg, log, clients, services)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Services:     services,
		Server:       server,
		shutdownOTel: shutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("http server listening", "addr", a.Server.Addr(), "graph", a.Clients.Source)
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := a.Cfg.HTTP.ShutdownTimeout.Duration
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a.Log.Info("http server shutting down", "timeout", timeout.String())
		return a.Server.Shutdown(sctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Clients.Close(ctx, a.Log)
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.shutdownOTel = nil
	}
	a.Log.Sync()
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/meetcore/authority/internal/authority/http"
	"github.com/meetcore/authority/internal/authority/domain"
	"github.com/meetcore/authority/internal/authority/focus/memory"
	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/slogx"
)

var (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the Authority, the demo Focus Manager driver, and the
// HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	authority    *service.Authority
	focusManager *memory.Manager

	server *http.Server
	router *httpapi.Router
}

// New builds an Application from cfg.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authority",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	authorityCfg, err := domain.NewAuthorityConfig(
		cfg.URLTemplate,
		cfg.ReservedRooms,
		cfg.TokenLifetime,
		cfg.PreAuthLifetime,
		cfg.ExpiryPollInterval,
	)
	if err != nil {
		return nil, fmt.Errorf("authority: invalid configuration: %w", err)
	}

	authority, err := service.New(authorityCfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("authority: construction failed: %w", err)
	}
	app.authority = authority
	app.focusManager = memory.New()

	app.initHTTP()

	return app, nil
}

// Run starts the Authority's expiry loop and the HTTP server, and blocks
// until a shutdown signal or server error is received.
func (app *Application) Run() error {
	app.authority.Start(app.focusManager)
	app.logger.Info("authority service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server and the Authority's expiry loop.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authority service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.authority.Stop()

	app.logger.Info("authority service stopped")
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.authority,
		app.focusManager,
		app.cfg.FocusSecret,
		BuildVersion,
		app.logger,
	)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

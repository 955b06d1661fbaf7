package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/linkbot/internal/directory/http"
	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// NewLogger builds the process logger from cfg, writing to stdout.
func NewLogger(cfg Config) *slog.Logger {
	return NewLoggerTo(cfg, nil)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(cfg Config, w io.Writer) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "linkbot",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  w,
	})
}

// Application is the long-running directory service.
type Application struct {
	cfg    Config
	logger *slog.Logger

	core     *Core
	registry *prometheus.Registry
	resync   *service.ResyncService // nil when disabled

	resyncStarted bool

	server *http.Server
	router *httpapi.Router
}

// New opens the store and loads the directory before anything is served.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = NewLogger(cfg)
	}

	app := &Application{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	core, err := OpenCore(ctx, cfg, logger, app.registry)
	if err != nil {
		return nil, err
	}
	app.core = core
	app.logger.Info("directory loaded", "entries", core.Directory.Len())

	if cfg.ResyncInterval > 0 {
		app.resync = service.NewResyncService(core.Directory, logger, core.Metrics, cfg.ResyncInterval)
	}

	app.initHTTP()
	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// server fails. The application is shut down before Run returns.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.resync != nil {
		app.resync.Start()
		app.resyncStarted = true
	}

	app.logger.Info("linkbot starting", "port", app.cfg.Port, "version", BuildVersion)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown stops the server, the resync worker and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down linkbot...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.resyncStarted {
		app.resync.Stop()
	}

	if err := app.core.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("linkbot stopped")
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.AdminToken,
		app.core.Store,
		app.core.Directory,
		app.registry,
		app.logger,
	)
	router.RegistrationService = app.core.Registration
	router.AdminService = app.core.Admin
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

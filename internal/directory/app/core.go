package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/linkbot/internal/directory/cache"
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/internal/directory/metrics"
	"github.com/aussiebroadwan/linkbot/internal/directory/service"
	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

// Core is the directory store, its cache and the services acting on them.
// The server and the admin CLI share it.
type Core struct {
	Store     *sqlite.Store
	Directory *cache.Directory
	Metrics   *metrics.Metrics
	URLs      domain.URLBuilder

	Registration *service.RegistrationService
	Admin        *service.AdminService
}

// OpenCore opens the database, applies migrations and loads the directory.
// Metrics are registered with reg when it is non-nil.
func OpenCore(ctx context.Context, cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*Core, error) {
	st, err := sqlite.NewStore(
		sqlite.DSN(cfg.DatabaseFile, cfg.BusyTimeout),
		sqlite.WithBusyTimeout(cfg.BusyTimeout),
		sqlite.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	logger.Debug("database migrations applied successfully", "file", cfg.DatabaseFile)

	urls := domain.TelegramStartURL(cfg.BotName)

	dir, err := cache.Load(ctx, st.Users(), urls, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
		m.SetDirectoryEntries(dir.Len())
	}

	return &Core{
		Store:     st,
		Directory: dir,
		Metrics:   m,
		URLs:      urls,
		Registration: &service.RegistrationService{
			Store:     st,
			Directory: dir,
			URLs:      urls,
			Metrics:   m,
		},
		Admin: &service.AdminService{
			Store:     st,
			Directory: dir,
			URLs:      urls,
			Metrics:   m,
		},
	}, nil
}

func (c *Core) Close() error {
	return c.Store.Close()
}

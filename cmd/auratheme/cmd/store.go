package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/jmylchreest/auratheme/internal/database"
	"github.com/jmylchreest/auratheme/internal/database/migrations"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/repository"
	"github.com/jmylchreest/auratheme/internal/service"
)

// themeBackend is an opened, migrated preference database and the theme
// store loaded from it.
type themeBackend struct {
	db    *database.DB
	prefs repository.PreferenceRepository
	store *service.ThemeStore
}

// openThemeBackend opens the database, runs migrations and loads the theme.
func openThemeBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*themeBackend, error) {
	db, err := database.New(cfg.Database, observability.WithComponent(logger, "database"))
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	migrator := migrations.NewMigrator(db.DB, logger)
	migrator.RegisterAll(migrations.AllMigrations())
	if err := migrator.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	prefs := repository.NewPreferenceRepository(db.DB)
	store := service.NewThemeStore(prefs, cfg.Theme.Namespace).
		WithLogger(observability.WithComponent(logger, "theme"))
	if err := store.Load(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	return &themeBackend{db: db, prefs: prefs, store: store}, nil
}

func (b *themeBackend) Close() error {
	return b.db.Close()
}

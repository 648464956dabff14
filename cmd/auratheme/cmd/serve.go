package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmylchreest/auratheme/internal/assets"
	"github.com/jmylchreest/auratheme/internal/config"
	internalhttp "github.com/jmylchreest/auratheme/internal/http"
	"github.com/jmylchreest/auratheme/internal/http/handlers"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/restart"
	"github.com/jmylchreest/auratheme/internal/scheduler"
	"github.com/jmylchreest/auratheme/internal/startup"
	"github.com/jmylchreest/auratheme/internal/storage"
	"github.com/jmylchreest/auratheme/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the auratheme server",
	Long: `Start the auratheme HTTP server.

The server provides:
- GET /, GET /current and POST /save for the device web page
- REST API under /api/v1 for theme, presets and runtime settings
- Health check endpoints (/health, /livez)
- OpenAPI documentation at /docs

A successful save ends with a restart according to theme.restart_mode.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 80, "Port to listen on")
	serveCmd.Flags().String("database", "auratheme.db", "Database DSN (file path for sqlite)")
	serveCmd.Flags().String("web-dir", "", "Serve the device page from this directory instead of the built-in one")

	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("database.dsn", serveCmd.Flags().Lookup("database"))
	mustBindPFlag("storage.web_dir", serveCmd.Flags().Lookup("web-dir"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cleanups []func()
	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		})
	}
	defer cleanup()

	backend, err := openThemeBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing database", slog.String("error", err.Error()))
		}
	})

	assetStore, err := newAssetStore(cfg.Storage)
	if err != nil {
		return err
	}

	mode, err := restart.ParseMode(cfg.Theme.RestartMode)
	if err != nil {
		return err
	}
	coordinator := restart.New(cfg.Theme.ApplyDelay, mode).
		WithLogger(observability.WithComponent(logger, "restart"))
	cleanups = append(cleanups, coordinator.Stop)

	server := internalhttp.NewServer(internalhttp.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RequestBacklog:  cfg.Server.RequestBacklog,
		BacklogTimeout:  cfg.Server.BacklogTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
	}, logger, version.Version)

	handlers.NewDeviceHandler(backend.store, coordinator, assetStore, cfg.Storage.IndexFile).
		WithLogger(observability.WithComponent(logger, "device")).
		Register(server.Router())

	themeHandler := handlers.NewThemeHandler(backend.store, coordinator).
		WithLogger(observability.WithComponent(logger, "api"))

	if cfg.Schedule.Enabled && len(cfg.Schedule.Entries) > 0 {
		sched := scheduler.NewPresetScheduler(backend.store, coordinator, cfg.Schedule.Entries).
			WithLogger(observability.WithComponent(logger, "scheduler"))
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		cleanups = append(cleanups, sched.Stop)
		themeHandler.WithSchedule(sched)
	}

	themeHandler.Register(server.API())
	handlers.NewHealthHandler(version.Version).
		WithDB(backend.db).
		WithApplyMode(string(mode)).
		Register(server.API())
	handlers.NewSettingsHandler(handlers.ApplySettings{
		Namespace:   cfg.Theme.Namespace,
		RestartMode: mode,
		ApplyDelay:  coordinator.Delay(),
	}).
		WithPending(coordinator).
		Register(server.API())

	logger.Info("starting auratheme server",
		slog.String("address", server.Addr()),
		slog.String("version", version.Version),
		slog.String("restart_mode", string(mode)),
		slog.Duration("apply_delay", coordinator.Delay()),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("received shutdown signal")
			return server.Shutdown(context.Background())

		case err := <-serverErr:
			return err

		case req := <-coordinator.Requests():
			done, err := applyTheme(req, mode, server, cleanup, logger)
			if done {
				return err
			}
		}
	}
}

// applyTheme acts on an apply request. It reports whether the server has
// stopped; with ModeNone it keeps running.
func applyTheme(req restart.ApplyRequest, mode restart.Mode, server *internalhttp.Server, cleanup func(), logger *slog.Logger) (bool, error) {
	logger = logger.With(
		slog.String("apply_id", req.ID.String()),
		slog.String("reason", req.Reason),
		slog.String("restart_mode", string(mode)),
	)

	switch mode {
	case restart.ModeNone:
		logger.Info("theme committed; restart skipped")
		return false, nil

	case restart.ModeExec:
		logger.Info("restarting to apply theme")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Warn("shutting down before exec", slog.String("error", err.Error()))
		}
		cleanup()
		if err := restart.Exec(); err != nil {
			return true, fmt.Errorf("restarting: %w", err)
		}
		return true, nil

	default:
		logger.Info("exiting to apply theme")
		if err := server.Shutdown(context.Background()); err != nil {
			return true, err
		}
		return true, nil
	}
}

// newAssetStore serves the device page from web_dir, or from the binary
// when none is configured.
func newAssetStore(cfg config.StorageConfig) (storage.AssetStore, error) {
	if cfg.WebDir == "" {
		return assets.EmbeddedStore(), nil
	}
	sandbox, err := storage.NewSandbox(cfg.WebDir)
	if err != nil {
		return nil, fmt.Errorf("initializing web dir: %w", err)
	}
	if _, err := startup.CleanupOrphanedTempFiles(slog.Default(), sandbox.BaseDir(), startup.DefaultCleanupAge); err != nil {
		slog.Warn("cleaning web dir", slog.String("error", err.Error()))
	}
	if ok, _ := sandbox.Exists(cfg.IndexFile); !ok {
		slog.Warn("index page missing from web dir; GET / will return 404",
			slog.String("web_dir", sandbox.BaseDir()),
			slog.String("index_file", cfg.IndexFile),
		)
	}
	return sandbox, nil
}

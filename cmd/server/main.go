package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/clinic/internal/auth"
	"github.com/JonMunkholm/clinic/internal/config"
	"github.com/JonMunkholm/clinic/internal/core"
	_ "github.com/JonMunkholm/clinic/internal/core/tables" // Register import definitions
	"github.com/JonMunkholm/clinic/internal/logging"
	"github.com/JonMunkholm/clinic/internal/store"
	"github.com/JonMunkholm/clinic/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := store.Seed(ctx, st, cfg.SeedPassword, bcrypt.DefaultCost); err != nil {
		slog.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	authn, err := auth.New(st, auth.Config{Secret: []byte(cfg.Session.Secret), TTL: cfg.Session.TTL})
	if err != nil {
		slog.Error("failed to create authenticator", "error", err)
		os.Exit(1)
	}

	fallback, err := core.LookupEncoding(cfg.Import.FallbackEncoding)
	if err != nil {
		slog.Error("invalid fallback encoding", "error", err)
		os.Exit(1)
	}

	service := core.NewService(st, authn,
		core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		core.Options{
			MaxFileSize:   cfg.Import.MaxFileSize,
			Fallback:      fallback,
			ImportTimeout: cfg.Import.Timeout,
		},
	)

	defs := core.All()
	keys := make([]string, len(defs))
	for i, d := range defs {
		keys[i] = d.Key
	}
	slog.Info("imports registered", "count", core.Count(), "keys", strings.Join(keys, ","))

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartRetentionScheduler(jobCtx, core.RetentionConfig{
		RetentionDays: cfg.Audit.RetentionDays,
		CheckInterval: cfg.Audit.CheckInterval,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.ImportStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		return
	}
	<-done
	slog.Info("server stopped")
}

// openStore builds the configured store. Postgres gets its schema applied
// before use.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Driver != "postgres" {
		slog.Info("using in-memory store")
		return store.NewMemory(), nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = cfg.Store.MaxConns
	poolConfig.MinConns = cfg.Store.MinConns
	poolConfig.MaxConnLifetime = cfg.Store.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Store.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.Store.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/uikit/internal/catalog"
	"github.com/JonMunkholm/uikit/internal/config"
	"github.com/JonMunkholm/uikit/internal/core"
	"github.com/JonMunkholm/uikit/internal/logging"
	"github.com/JonMunkholm/uikit/internal/schema"
	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/web"
)

func main() {
	cfg, err := config.LoadFiles(".env")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"database", cfg.Database.URL != "",
		"preview_max_concurrent", cfg.Preview.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		slog.Error("failed to open row source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	service := core.NewService(source, core.Options{
		PageSize:              cfg.Table.PageSize,
		Locale:                cfg.Table.LocaleTag(),
		PreviewMaxSize:        cfg.Preview.MaxSize,
		AllowedTypes:          cfg.Preview.AllowedTypes,
		MaxConcurrentPreviews: cfg.Preview.MaxConcurrent,
		PreviewWait:           cfg.Preview.MaxWaitTime,
		Logger:                logger,
	})

	slog.Info("catalog registered",
		"tables", len(core.Tables()),
		"forms", len(core.Forms()),
		"groups", len(core.Groups()),
	)

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.Limiter().Status(); status.Active > 0 {
		slog.Info("waiting for previews to complete", "active", status.Active)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openSource connects to Postgres when a URL is configured and falls back to
// the bundled rows in memory otherwise.
func openSource(ctx context.Context, cfg *config.Config) (store.RowSource, func(), error) {
	if cfg.Database.URL == "" {
		src := store.NewMemorySource()
		catalog.Seed(src)
		slog.Info("no database configured, serving bundled rows from memory")
		return src, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, errors.New("invalid database URL")
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	if cfg.Database.Migrate {
		if err := schema.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := schema.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("schema applied")
	}

	return store.NewPostgresSource(pool), pool.Close, nil
}

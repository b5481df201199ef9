package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/cache"
	"github.com/javiermolinar/courtsched/internal/config"
	"github.com/javiermolinar/courtsched/internal/db"
	"github.com/javiermolinar/courtsched/internal/logging"
	"github.com/javiermolinar/courtsched/internal/training"
	"github.com/javiermolinar/courtsched/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := openRepo(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var courts training.CourtRepository = repo
	if cfg.CacheEnabled() {
		cc, err := openCache(ctx, cfg, repo, logger)
		if err != nil {
			logger.Warn("court cache disabled", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		} else {
			defer func() { _ = cc.Close() }()
			courts = cc
		}
	}

	app := ui.NewApp(repo, courts, repo, cfg, logger)
	return app.Execute(ctx)
}

func openRepo(dbPath string) (*db.SQLite, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

func openCache(ctx context.Context, cfg *config.Config, repo *db.SQLite, logger *zap.Logger) (*cache.CourtCache, error) {
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	client := cache.NewClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	cc := cache.NewCourtCache(client, repo, ttl, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cc.Ping(pingCtx); err != nil {
		_ = cc.Close()
		return nil, err
	}
	return cc, nil
}

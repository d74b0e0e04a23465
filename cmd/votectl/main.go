package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"votely/internal/cache"
	"votely/internal/cli"
	"votely/internal/config"
	"votely/internal/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(openBackend(config.Load()))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}

// openBackend connects to the same database and cache the API server uses.
// Migrations run so the tool works against a fresh database, but the
// default candidates are only inserted by `votectl seed`.
func openBackend(cfg *config.Config) cli.Backend {
	return func() (*gorm.DB, *cache.Client, func(), error) {
		gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, nil, nil, err
		}
		cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

		closeFn := func() {
			_ = cacheClient.Close()
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return gormDB, cacheClient, closeFn, nil
	}
}

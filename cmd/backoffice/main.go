package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/najihkids/backoffice/internal/auth"
	"github.com/najihkids/backoffice/internal/config"
	"github.com/najihkids/backoffice/internal/storage/legacy"
	"github.com/najihkids/backoffice/internal/storage/migrate"
	"github.com/najihkids/backoffice/internal/storage/sqlite"
	"github.com/najihkids/backoffice/pkg/logging"
)

func main() {
	logging.Setup()
	logger := slog.Default()

	cfg := config.Load()
	ctx := context.Background()

	kv, err := legacy.Open(cfg.LegacyPath)
	if err != nil {
		logger.Error("failed to open legacy store", "path", cfg.LegacyPath, "error", err)
		os.Exit(1)
	}

	store := sqlite.New(cfg.DBPath)
	defer store.Close()

	provider := auth.NewProvider(store, kv, logger)
	if err := provider.Bootstrap(ctx); err != nil {
		logger.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Resume any persisted session so migrated records can be stamped
	// with the active identity.
	sess := provider.Resume()

	// Migration errors are retried on the next start; the app stays
	// usable either way.
	controller := migrate.New(kv, store, logger)
	if err := controller.Run(ctx, sess.UserID()); err != nil {
		logger.Warn("legacy migration incomplete, will retry on next start", "error", err)
	}

	logger.Info("back-office ready",
		"database", cfg.DBPath,
		"legacy", cfg.LegacyPath,
		"migrated", controller.Done(),
		"session", sess.UserID(),
	)
}

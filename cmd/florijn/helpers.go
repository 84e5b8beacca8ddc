package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mjhoekstra/florijn/internal/config"
	"github.com/mjhoekstra/florijn/internal/engine"
	"github.com/mjhoekstra/florijn/internal/service"
	"github.com/mjhoekstra/florijn/internal/storage"
)

// initStore opens the configured database and applies pending migrations.
func initStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		closeStore(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine loads the stored rules and builds a classification engine.
func initEngine(ctx context.Context, store service.RuleStore, cfg *config.Config) (*engine.Engine, error) {
	defs, err := store.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	return engine.New(defs, engineConfig(cfg)), nil
}

func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		EvalCacheSize:    cfg.Engine.EvalCacheSize,
		RegexCacheSize:   cfg.Engine.RegexCacheSize,
		SequentialCutoff: cfg.Engine.ParallelThreshold,
		BatchSize:        cfg.Engine.BatchSize,
	}
}

func closeStore(store service.Store) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/config"
	"github.com/workshopkit/wrench/internal/engine"
	"github.com/workshopkit/wrench/internal/rules"
	"github.com/workshopkit/wrench/internal/storage"
)

func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "wrench", "wrench.db"), nil
}

func openStorage() (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("failed to open rules database at %s", path), err)
	}
	return store, nil
}

// engineConfig builds the engine configuration from viper, starting from
// defaults so a missing config file still works.
func engineConfig() config.Config {
	cfg := config.Default()

	if viper.IsSet("engine.confidence_threshold") {
		cfg.ConfidenceThreshold = viper.GetFloat64("engine.confidence_threshold")
	}
	if viper.IsSet("engine.fuzzy_threshold") {
		cfg.FuzzyThreshold = viper.GetFloat64("engine.fuzzy_threshold")
	}
	if viper.IsSet("engine.context_bonus") {
		cfg.ContextBonus = viper.GetFloat64("engine.context_bonus")
	}
	if viper.IsSet("engine.max_results") {
		cfg.MaxResultsPerCategory = viper.GetInt("engine.max_results")
	}
	if viper.IsSet("engine.cache_ttl") {
		cfg.CacheTTL = viper.GetDuration("engine.cache_ttl")
	}
	if viper.IsSet("engine.debug") {
		cfg.DebugMode = viper.GetBool("engine.debug")
	}

	return cfg
}

// newEngine wires storage, the rule repository, and the engine together.
// The caller owns closing the returned storage. Migrations are idempotent,
// so running them here lets analyze/batch work against a fresh database
// without an explicit migrate step.
func newEngine(ctx context.Context) (*engine.Engine, *storage.SQLiteStorage, error) {
	store, err := openStorage()
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, common.NewUserError("database migration failed", err)
	}

	cfg := engineConfig()
	repo := rules.NewRepository(store, cfg.CacheTTL)

	eng, err := engine.New(repo, cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return eng, store, nil
}

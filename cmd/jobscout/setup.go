package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/config"
	"github.com/fenloai/jobscout/internal/logger"
	"github.com/fenloai/jobscout/internal/store"
)

// preferencesFileName is looked up inside the config dir.
const preferencesFileName = "job_preferences.yaml"

// appEnv bundles the pieces nearly every command needs.
type appEnv struct {
	cfg   *config.App
	store *store.Store
	log   *zap.Logger
}

// openEnv builds the logger, reads the environment, connects to the
// database, and ensures the schema and data dir exist.
func openEnv(ctx context.Context) (*appEnv, error) {
	log, err := logger.New(flagJSONLogs, flagDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.InitSchema(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return &appEnv{cfg: cfg, store: st, log: log}, nil
}

func (e *appEnv) Close() {
	e.store.Close()
	_ = e.log.Sync()
}

func (e *appEnv) preferencesPath() string {
	return filepath.Join(e.cfg.ConfigDir, preferencesFileName)
}

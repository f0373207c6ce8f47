package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agendu/internal/config"
	"agendu/internal/logger"
	"agendu/internal/storage"
	"agendu/internal/summary"
	"agendu/internal/tasks"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	store      storage.KV
	manager    *tasks.Manager
	summarizer summary.Summarizer

	syncLog func() error
}

func setup(ctx context.Context, configPath string, withSummary bool) (*app, error) {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.LoadEnv(configPath); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	log, syncLog, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Path:     cfg.Log.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log, syncLog: syncLog}

	store, err := storage.Open(cfg.Backend, cfg.DBPath)
	if err != nil {
		// keep going in memory; nothing will be saved this session
		log.Error("failed to open storage", zap.String("backend", cfg.Backend), zap.String("path", cfg.DBPath), zap.Error(err))
		store = nil
	}
	a.store = store
	a.manager = tasks.NewManager(store, log)

	if withSummary && cfg.Summary.Enabled {
		key := cfg.APIKey()
		if key == "" {
			log.Warn("summary enabled but no API key set", zap.String("env", cfg.Summary.APIKeyEnv))
		} else {
			s, err := summary.NewGenAI(ctx, key, cfg.Summary.Model, log)
			if err != nil {
				log.Error("failed to create summarizer", zap.Error(err))
			} else {
				a.summarizer = s
			}
		}
	}

	log.Info("started", zap.String("config", configPath), zap.String("backend", cfg.Backend))
	return a, nil
}

// mount loads stored state for the one-shot commands.
func (a *app) mount() error {
	if a.store == nil {
		return errors.New("storage unavailable, see log for details")
	}
	if !a.manager.Mount() {
		return errors.New("failed to read stored tasks")
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.syncLog != nil {
		errs = append(errs, a.syncLog())
	}
	return errors.Join(errs...)
}

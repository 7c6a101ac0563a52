package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/remoteeu/jobboard/internal/cache"
	"github.com/remoteeu/jobboard/internal/classify"
	"github.com/remoteeu/jobboard/internal/config"
	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/observability"
	"github.com/remoteeu/jobboard/internal/pipeline"
	"github.com/remoteeu/jobboard/internal/service"
)

// app bundles the wired dependencies a subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *db.DB
	cache   *cache.Cache
	service *service.Service
}

// setup loads configuration and connects storage. Every subcommand except
// help goes through here.
func setup(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var c *cache.Cache
	if cfg.RedisURL != "" {
		c, err = cache.New(ctx, cfg.RedisURL, time.Duration(cfg.CacheTTLSecs)*time.Second)
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn("cache unavailable, continuing without it", zap.Error(err))
			c = nil
		}
	}

	processor := pipeline.NewProcessor(
		database,
		classify.NewATSEnhancer(nil),
		classify.KeywordTagger{},
		classify.PhraseClassifier{},
		logger,
		cfg.ProcessLimit,
		4,
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      database,
		cache:   c,
		service: service.New(database, processor, c, logger),
	}, nil
}

func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	a.db.Close()
	_ = a.logger.Sync()
}

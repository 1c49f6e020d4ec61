package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/history"
	"github.com/cgr-group/prospect-api/internal/relevance"
	"github.com/cgr-group/prospect-api/internal/reveal"
	"github.com/cgr-group/prospect-api/internal/search"
	"github.com/cgr-group/prospect-api/pkg/claude"
	"github.com/cgr-group/prospect-api/pkg/enrichit"
	"github.com/cgr-group/prospect-api/pkg/perplexity"
)

// env bundles the wired service with its closable stores.
type env struct {
	Service *search.Service

	cacheStore   cache.Store
	historyStore history.Store
}

func (e *env) Close() {
	if c, ok := e.cacheStore.(*cache.Redis); ok {
		if err := c.Close(); err != nil {
			zap.L().Warn("cache close failed", zap.Error(err))
		}
	}
	if e.historyStore != nil {
		if err := e.historyStore.Close(); err != nil {
			zap.L().Warn("history close failed", zap.Error(err))
		}
	}
}

// initService wires providers and stores into a search.Service.
func initService(ctx context.Context) (*env, error) {
	var cacheStore cache.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, eris.Wrap(err, "init redis cache")
		}
		cacheStore = redisStore
	} else {
		zap.L().Warn("redis addr not set, using in-memory cache")
		cacheStore = cache.NewMemory()
	}

	historyStore, err := history.New(ctx, cfg.History)
	if err != nil {
		return nil, eris.Wrap(err, "init history store")
	}
	if err := historyStore.Migrate(ctx); err != nil {
		return nil, eris.Wrap(err, "migrate history store")
	}

	filter, err := relevance.New(cfg.Relevance)
	if err != nil {
		return nil, eris.Wrap(err, "init relevance filter")
	}

	perplexityClient := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model))
	claudeClient := claude.NewClient(cfg.Claude.Key,
		claude.WithDefaults(cfg.Claude.Model, int64(cfg.Claude.MaxTokens)))
	enrichClient := enrichit.NewClient(cfg.Enrich.Key,
		enrichit.WithBaseURL(cfg.Enrich.BaseURL))

	svc := search.NewService(
		cfg,
		perplexityClient,
		claudeClient,
		enrichClient,
		cacheStore,
		historyStore,
		reveal.NewStore(cfg.Reveal),
		filter,
	)

	return &env{Service: svc, cacheStore: cacheStore, historyStore: historyStore}, nil
}

// Package search hosts the five search orchestrators. Each sequences the
// same pipeline: cache check, provider call under a per-feature timeout,
// extraction, repair, normalization, scoring or filtering, history
// insert, cache persist. A request either yields a full validated result
// list or a typed error; there is no partial success and no automatic
// retry.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/extract"
	"github.com/cgr-group/prospect-api/internal/history"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/relevance"
	"github.com/cgr-group/prospect-api/internal/reveal"
	"github.com/cgr-group/prospect-api/pkg/claude"
	"github.com/cgr-group/prospect-api/pkg/enrichit"
	"github.com/cgr-group/prospect-api/pkg/perplexity"
)

// defaultResultCount applies when an enterprise search leaves the count
// unset.
const defaultResultCount = 10

// defaultMarketCount is the number of opportunities a brainstorming call
// returns unless the request asks otherwise.
const defaultMarketCount = 5

// Service wires the orchestrators to their providers and stores.
type Service struct {
	cfg        *config.Config
	perplexity perplexity.Client
	claude     claude.Client
	enrich     enrichit.Client
	cache      cache.Store
	history    history.Store
	reveals    *reveal.Store
	filter     *relevance.Filter
	validate   *validator.Validate
}

// NewService builds a Service. The reveal store is owned here so webhook
// resolution and contact searches share one bounded instance.
func NewService(
	cfg *config.Config,
	pplx perplexity.Client,
	cld claude.Client,
	enrich enrichit.Client,
	cacheStore cache.Store,
	historyStore history.Store,
	reveals *reveal.Store,
	filter *relevance.Filter,
) *Service {
	return &Service{
		cfg:        cfg,
		perplexity: pplx,
		claude:     cld,
		enrich:     enrich,
		cache:      cacheStore,
		history:    historyStore,
		reveals:    reveals,
		filter:     filter,
		validate:   validator.New(),
	}
}

// Reveals exposes the pending-reveal store to the webhook handler.
func (s *Service) Reveals() *reveal.Store { return s.reveals }

// Cache exposes the cache store to the webhook handler for persisting
// delivered phone numbers.
func (s *Service) Cache() cache.Store { return s.cache }

// History exposes the history store to the API layer.
func (s *Service) History() history.Store { return s.history }

// validateRequest runs struct validation and converts failures to the
// ValidationError taxonomy.
func (s *Service) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// cacheLookup deserializes a cached response into out. A cache read error
// is logged and treated as a miss: the cache must never fail a search.
func (s *Service) cacheLookup(ctx context.Context, key string, out any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("search: cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		zap.L().Warn("search: corrupt cache entry dropped", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

// cachePersist serializes a response under key. Write failures are logged
// only; the response is already complete.
func (s *Service) cachePersist(ctx context.Context, key string, resp any, ttl time.Duration) {
	raw, err := json.Marshal(resp)
	if err != nil {
		zap.L().Warn("search: cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		zap.L().Warn("search: cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// recordHistory appends a history record. History failures never fail the
// search; the response is already assembled.
func (s *Service) recordHistory(ctx context.Context, rec model.SearchHistoryRecord) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Insert(ctx, rec); err != nil {
		zap.L().Warn("search: history insert failed",
			zap.String("product", rec.Product), zap.Error(err))
	}
}

// extractionError maps an extract failure into the error taxonomy. When the
// raw text holds an opening brace a candidate was located but could not be
// repaired; otherwise no JSON was present at all.
func extractionError(stage string, err error) error {
	var noJSON *extract.NoJSONError
	if errors.As(err, &noJSON) {
		if strings.Contains(noJSON.Snippet, "{") || strings.Contains(noJSON.Snippet, "[") {
			return &RepairFailure{Stage: stage, Snippet: noJSON.Snippet}
		}
		return &ExtractionError{Stage: stage, Snippet: noJSON.Snippet}
	}
	return &ExtractionError{Stage: stage}
}

// primary picks the first non-empty element, or fallback.
func primary(values []string, fallback string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return fallback
}

// dedupe keeps first occurrences, preserving order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func floatPtr(f float64) *float64 { return &f }

package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/extract"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/normalize"
	"github.com/cgr-group/prospect-api/pkg/perplexity"
)

// competitorResult carries the per-name outcome of the analysis fan-out.
type competitorResult struct {
	analysis model.CompetitorAnalysis
	ok       bool
	cached   bool
	repaired bool
	sources  []string
}

// AnalyzeCompetitors runs one deep-dive analysis per requested name.
// Names fan out under a bounded worker group with a shared rate limiter
// so a large batch cannot hammer the provider. Each name is cached
// individually; the response reports cached only when every name hit.
func (s *Service) AnalyzeCompetitors(ctx context.Context, req model.CompetitorAnalysisRequest) (*model.CompetitorAnalysisResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	limiter := rate.NewLimiter(rate.Limit(s.cfg.Search.BatchRatePerSec), 1)
	results := make([]competitorResult, len(req.CompetitorNames))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Search.BatchConcurrency)
	for i, name := range req.CompetitorNames {
		g.Go(func() error {
			res, err := s.analyzeOne(groupCtx, limiter, name)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		analyses  []model.CompetitorAnalysis
		sources   []string
		rejected  int
		repaired  bool
		allCached = true
	)
	for _, r := range results {
		if !r.ok {
			rejected++
			continue
		}
		analyses = append(analyses, r.analysis)
		sources = append(sources, r.sources...)
		repaired = repaired || r.repaired
		allCached = allCached && r.cached
	}
	if len(analyses) == 0 {
		return nil, &NoResultsError{Suggestion: "vérifiez l'orthographe des noms de concurrents"}
	}

	resp := &model.CompetitorAnalysisResponse{
		SearchType: model.SearchCompetitor,
		Analyses:   analyses,
		TotalFound: len(analyses),
		Cached:     allCached,
		Sources:    dedupe(sources),
		Debug: &model.Debug{
			Provider:      "perplexity",
			Model:         s.cfg.Perplexity.Model,
			RawCandidates: len(req.CompetitorNames),
			Rejected:      rejected,
			Repaired:      repaired,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}

	zap.L().Info("search: competitor analyses completed",
		zap.Int("requested", len(req.CompetitorNames)),
		zap.Int("analyses", len(analyses)),
		zap.Bool("cached", allCached),
		zap.Duration("elapsed", time.Since(start)))

	if !allCached {
		s.recordHistory(ctx, model.SearchHistoryRecord{
			Product:       "analyse-concurrentielle",
			Location:      model.DefaultGeographicZone,
			ReferenceURLs: dedupe(sources),
			ResultsCount:  len(analyses),
			SearchQuery:   fmt.Sprintf("concurrents: %v", req.CompetitorNames),
		})
	}
	return resp, nil
}

// analyzeOne resolves a single competitor, through the per-name cache or a
// fresh rate-limited provider call.
func (s *Service) analyzeOne(ctx context.Context, limiter *rate.Limiter, name string) (competitorResult, error) {
	key := cache.Key("analyse-concurrent", name, "type="+string(model.SearchCompetitor))

	var stored model.CompetitorAnalysis
	if s.cacheLookup(ctx, key, &stored) {
		return competitorResult{analysis: stored, ok: true, cached: true, sources: stored.Sources}, nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return competitorResult{}, providerCallError(ctx, err, "perplexity", "analyse concurrent "+name, s.cfg.Search.CompetitorTimeout)
	}

	budget := s.cfg.Search.CompetitorTimeout
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	text, citations, err := s.perplexity.Search(callCtx, competitorAnalysisSystemPrompt, competitorAnalysisUserPrompt(name), perplexity.SearchOptions{
		RecencyFilter: "year",
		Temperature:   floatPtr(0.2),
	})
	if err != nil {
		return competitorResult{}, providerCallError(callCtx, err, "perplexity", "analyse concurrent "+name, budget)
	}

	res, err := extract.Object(text)
	if err != nil {
		return competitorResult{}, extractionError("analyse concurrent "+name, err)
	}

	analysis, ok := normalize.CompetitorAnalysis(name, normalize.Obj(res.Object["analysis"]))
	if !ok {
		zap.L().Warn("search: competitor analysis rejected during normalization",
			zap.String("competitor", name))
		return competitorResult{repaired: res.Repaired}, nil
	}
	if len(analysis.Sources) == 0 {
		analysis.Sources = citations
	}

	s.cachePersist(ctx, key, analysis, s.cfg.Cache.CompetitorTTL)
	return competitorResult{
		analysis: analysis,
		ok:       true,
		repaired: res.Repaired,
		sources:  append(analysis.Sources, citations...),
	}, nil
}

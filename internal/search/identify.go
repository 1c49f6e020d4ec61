package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/extract"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/normalize"
	"github.com/cgr-group/prospect-api/pkg/perplexity"
)

// IdentifyCompetitors discovers the competitors of a given company. This is
// the slowest flow: the provider runs a deep research pass, so the budget
// is generous and results are cached for a long time.
func (s *Service) IdentifyCompetitors(ctx context.Context, req model.CompetitorIdentifyRequest) (*model.CompetitorIdentifyResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	zone := req.GeographicZone
	if zone == "" {
		zone = model.DefaultGeographicZone
	}

	params := []string{"type=" + string(model.SearchIdentify)}
	if req.Website != "" {
		params = append(params, req.Website)
	}
	key := cache.Key(req.CompanyName, zone, params...)

	var cached model.CompetitorIdentifyResponse
	if s.cacheLookup(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	start := time.Now()
	budget := s.cfg.Search.IdentifyTimeout
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	userPrompt := competitorIdentifyUserPrompt(req)
	text, citations, err := s.perplexity.Search(callCtx, competitorIdentifySystemPrompt, userPrompt, perplexity.SearchOptions{
		RecencyFilter: "year",
		Temperature:   floatPtr(0.2),
	})
	if err != nil {
		return nil, providerCallError(callCtx, err, "perplexity", "identification de concurrents", budget)
	}

	res, err := extract.Object(text)
	if err != nil {
		return nil, extractionError("identification de concurrents", err)
	}

	competitors, rejected := normalize.IdentifiedCompetitorList(res.Object, "competitors")
	if len(competitors) == 0 {
		return nil, &NoResultsError{Suggestion: "précisez le site web ou la zone géographique de l'entreprise"}
	}

	resp := &model.CompetitorIdentifyResponse{
		SearchType:  model.SearchIdentify,
		Competitors: competitors,
		TotalFound:  len(competitors),
		Sources:     citations,
		Debug: &model.Debug{
			Provider:      "perplexity",
			Model:         s.cfg.Perplexity.Model,
			RawCandidates: len(competitors) + rejected,
			Rejected:      rejected,
			Repaired:      res.Repaired,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}

	zap.L().Info("search: competitor identification completed",
		zap.String("company", req.CompanyName),
		zap.Int("competitors", len(competitors)),
		zap.Int("rejected", rejected),
		zap.Duration("elapsed", time.Since(start)))

	s.recordHistory(ctx, model.SearchHistoryRecord{
		Product:       "identification-concurrents",
		Location:      zone,
		ReferenceURLs: citations,
		ResultsCount:  len(competitors),
		SearchQuery:   userPrompt,
	})
	s.cachePersist(ctx, key, resp, s.cfg.Cache.IdentifyTTL)
	return resp, nil
}

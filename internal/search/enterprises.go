package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/extract"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/normalize"
	"github.com/cgr-group/prospect-api/internal/scoring"
	"github.com/cgr-group/prospect-api/pkg/perplexity"
)

// SearchEnterprises runs the prospect discovery pipeline: one provider
// call, extraction, normalization, scoring and quality backfill.
func (s *Service) SearchEnterprises(ctx context.Context, req model.EnterpriseSearchRequest) (*model.EnterpriseSearchResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	count := req.ResultCount
	if count == 0 {
		count = defaultResultCount
	}

	key := enterpriseCacheKey(req, count)
	var cached model.EnterpriseSearchResponse
	if s.cacheLookup(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	start := time.Now()
	budget := s.cfg.Search.EnterpriseTimeout
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	userPrompt := enterpriseUserPrompt(req, count)
	text, citations, err := s.perplexity.Search(callCtx, enterpriseSystemPrompt, userPrompt, perplexity.SearchOptions{
		Temperature: floatPtr(0.2),
	})
	if err != nil {
		return nil, providerCallError(callCtx, err, "perplexity", "recherche d'entreprises", budget)
	}

	res, err := extract.Object(text)
	if err != nil {
		return nil, extractionError("recherche d'entreprises", err)
	}

	enterprises, rejected := normalize.EnterpriseList(res.Object, "entreprises")
	if len(enterprises) == 0 {
		return nil, &NoResultsError{Suggestion: "élargissez les secteurs ou les zones géographiques"}
	}

	prospects, backfilled := scoring.SelectProspects(enterprises, count, s.cfg.Scoring)
	if len(prospects) == 0 {
		return nil, &NoResultsError{Suggestion: "aucun prospect ne dépasse le seuil de qualité, élargissez les critères"}
	}

	resp := &model.EnterpriseSearchResponse{
		SearchType: model.SearchEnterprises,
		Prospects:  prospects,
		TotalFound: len(prospects),
		Sources:    citations,
		Debug: &model.Debug{
			Provider:      "perplexity",
			Model:         s.cfg.Perplexity.Model,
			RawCandidates: len(enterprises) + rejected,
			Rejected:      rejected,
			Repaired:      res.Repaired,
			Backfilled:    backfilled,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}

	zap.L().Info("search: enterprises completed",
		zap.Int("prospects", len(prospects)),
		zap.Int("rejected", rejected),
		zap.Int("backfilled", backfilled),
		zap.Duration("elapsed", time.Since(start)))

	s.recordHistory(ctx, model.SearchHistoryRecord{
		Product:       primary(req.Products, "catalogue"),
		Location:      primary(zonesOf(req), model.DefaultGeographicZone),
		ReferenceURLs: citations,
		ResultsCount:  len(prospects),
		SearchQuery:   userPrompt,
	})
	s.cachePersist(ctx, key, resp, s.cfg.Cache.EnterpriseTTL)
	return resp, nil
}

func enterpriseCacheKey(req model.EnterpriseSearchRequest, count int) string {
	params := []string{
		"type=" + string(model.SearchEnterprises),
		fmt.Sprintf("n=%d", count),
	}
	params = append(params, req.Sectors...)
	if req.FreeTextSector != "" {
		params = append(params, req.FreeTextSector)
	}
	if req.CompanySize != "" {
		params = append(params, "taille="+req.CompanySize)
	}
	params = append(params, req.Exclusions...)
	params = append(params, req.FactoryReferences...)
	// Secondary zones beyond the key's location slot still discriminate.
	if zones := zonesOf(req); len(zones) > 1 {
		params = append(params, zones[1:]...)
	}
	return cache.Key(primary(req.Products, "catalogue"), primary(zonesOf(req), model.DefaultGeographicZone), params...)
}

func zonesOf(req model.EnterpriseSearchRequest) []string {
	zones := req.GeographicZones
	if req.FreeTextZone != "" {
		zones = append(zones, req.FreeTextZone)
	}
	return zones
}

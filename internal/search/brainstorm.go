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
)

// Brainstorm asks Claude for market opportunities across the requested
// sectors. Ideation needs no web search, so it runs on the reasoning
// model rather than Perplexity. Markets with a thin justification are
// rejected during normalization.
func (s *Service) Brainstorm(ctx context.Context, req model.BrainstormRequest) (*model.BrainstormResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	marketCount := req.MarketCount
	if marketCount == 0 {
		marketCount = defaultMarketCount
	}
	products := req.Products
	if len(products) == 0 {
		products = model.DefaultCGRProducts
	}
	zone := req.GeographicZone
	if zone == "" {
		zone = model.DefaultGeographicZone
	}

	params := []string{
		"type=" + string(model.SearchBrainstorming),
		fmt.Sprintf("n=%d", marketCount),
	}
	params = append(params, req.Sectors...)
	if req.FreeTextSector != "" {
		params = append(params, req.FreeTextSector)
	}
	params = append(params, products...)
	key := cache.Key(primary(products, "catalogue"), zone, params...)

	var cached model.BrainstormResponse
	if s.cacheLookup(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	start := time.Now()
	budget := s.cfg.Search.BrainstormTimeout
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	userPrompt := brainstormUserPrompt(req, marketCount, products, zone)
	text, err := s.claude.Complete(callCtx, brainstormSystemPrompt, userPrompt)
	if err != nil {
		return nil, providerCallError(callCtx, err, "claude", "brainstorming", budget)
	}

	res, err := extract.Object(text)
	if err != nil {
		return nil, extractionError("brainstorming", err)
	}

	markets, rejected := normalize.MarketList(res.Object, "markets")
	if len(markets) == 0 {
		return nil, &NoResultsError{Suggestion: "reformulez les secteurs ou laissez le champ libre vide"}
	}
	if len(markets) > marketCount {
		markets = markets[:marketCount]
	}

	resp := &model.BrainstormResponse{
		SearchType: model.SearchBrainstorming,
		Markets:    markets,
		TotalFound: len(markets),
		Debug: &model.Debug{
			Provider:      "claude",
			Model:         s.cfg.Claude.Model,
			RawCandidates: len(markets) + rejected,
			Rejected:      rejected,
			Repaired:      res.Repaired,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}

	zap.L().Info("search: brainstorm completed",
		zap.Int("markets", len(markets)),
		zap.Int("rejected", rejected),
		zap.Duration("elapsed", time.Since(start)))

	s.recordHistory(ctx, model.SearchHistoryRecord{
		Product:      primary(products, "catalogue"),
		Location:     zone,
		ResultsCount: len(markets),
		SearchQuery:  userPrompt,
	})
	s.cachePersist(ctx, key, resp, s.cfg.Cache.BrainstormTTL)
	return resp, nil
}

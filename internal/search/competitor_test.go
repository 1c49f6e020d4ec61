package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgr-group/prospect-api/internal/model"
)

const competitorAnalysisJSON = `{
  "analysis": {
    "companySummary": "Fabricant allemand de ressorts techniques pour l'automobile et le médical.",
    "productsServices": ["ressorts de compression", "ressorts de torsion"],
    "targetMarkets": ["automobile", "médical"],
    "clientCompanies": ["Bosch"],
    "apparentStrengths": ["capacité de production élevée"],
    "potentialWeaknesses": ["peu présent en France"],
    "communicationStrategy": "Salons professionnels et catalogue technique en ligne.",
    "sources": ["https://concurrent.example.de"]
  }
}`

const identifyJSON = `{
  "competitors": [
    {
      "name": "Ressorts Laval",
      "website": "https://ressorts-laval.example.fr",
      "geographicPresence": "France",
      "targetMarkets": ["automobile"],
      "companySize": "PME",
      "productSpecialties": ["ressorts de compression"],
      "marketPositioning": "Spécialiste régional du ressort sur mesure",
      "sources": ["https://ressorts-laval.example.fr"]
    },
    {
      "name": "Federn GmbH",
      "website": "https://federn.example.de",
      "geographicPresence": "Allemagne, France",
      "targetMarkets": ["médical", "aéronautique"],
      "companySize": "ETI",
      "productSpecialties": ["micro-ressorts"],
      "marketPositioning": "Haut de gamme médical",
      "sources": ["https://federn.example.de"]
    }
  ]
}`

func TestAnalyzeCompetitors_FanOut(t *testing.T) {
	deps := newTestService(t)
	deps.perplexity.text = competitorAnalysisJSON
	deps.perplexity.citations = []string{"https://pappers.fr/concurrent"}

	resp, err := deps.svc.AnalyzeCompetitors(context.Background(), model.CompetitorAnalysisRequest{
		CompetitorNames: []string{"Federntechnik", "Springmasters"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SearchCompetitor, resp.SearchType)
	require.Len(t, resp.Analyses, 2)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, deps.perplexity.callCount())

	// Each analysis is tagged with its requested name, in request order.
	assert.Equal(t, "Federntechnik", resp.Analyses[0].Name)
	assert.Equal(t, "Springmasters", resp.Analyses[1].Name)

	// Citations are folded into deduplicated sources.
	assert.Contains(t, resp.Sources, "https://concurrent.example.de")
}

func TestAnalyzeCompetitors_PerNameCache(t *testing.T) {
	deps := newTestService(t)
	deps.perplexity.text = competitorAnalysisJSON

	req := model.CompetitorAnalysisRequest{CompetitorNames: []string{"Federntechnik"}}

	first, err := deps.svc.AnalyzeCompetitors(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := deps.svc.AnalyzeCompetitors(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, deps.perplexity.callCount())

	// A batch mixing one cached and one fresh name reports not cached and
	// only calls the provider for the new name.
	mixed, err := deps.svc.AnalyzeCompetitors(context.Background(), model.CompetitorAnalysisRequest{
		CompetitorNames: []string{"Federntechnik", "Springmasters"},
	})
	require.NoError(t, err)
	assert.False(t, mixed.Cached)
	assert.Equal(t, 2, deps.perplexity.callCount())
}

func TestAnalyzeCompetitors_EmptyNamesRejected(t *testing.T) {
	deps := newTestService(t)

	_, err := deps.svc.AnalyzeCompetitors(context.Background(), model.CompetitorAnalysisRequest{})
	require.Error(t, err)
	assert.Equal(t, TypeValidation, TypeOf(err))

	_, err = deps.svc.AnalyzeCompetitors(context.Background(), model.CompetitorAnalysisRequest{
		CompetitorNames: []string{""},
	})
	require.Error(t, err)
	assert.Equal(t, TypeValidation, TypeOf(err))
}

func TestAnalyzeCompetitors_AllRejectedIsNoResults(t *testing.T) {
	deps := newTestService(t)
	// Parseable JSON but no usable analysis object inside.
	deps.perplexity.text = `{"analysis": {"companySummary": ""}}`

	_, err := deps.svc.AnalyzeCompetitors(context.Background(), model.CompetitorAnalysisRequest{
		CompetitorNames: []string{"Fantôme SARL"},
	})
	require.Error(t, err)
	assert.Equal(t, TypeNoResults, TypeOf(err))
}

func TestIdentifyCompetitors_Success(t *testing.T) {
	deps := newTestService(t)
	deps.perplexity.text = identifyJSON
	deps.perplexity.citations = []string{"https://societe.com/ressorts-laval"}

	resp, err := deps.svc.IdentifyCompetitors(context.Background(), model.CompetitorIdentifyRequest{
		CompanyName: "CGR",
		Website:     "https://cgr.example.fr",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SearchIdentify, resp.SearchType)
	require.Len(t, resp.Competitors, 2)
	assert.Equal(t, "Ressorts Laval", resp.Competitors[0].Name)
	assert.Equal(t, []string{"https://societe.com/ressorts-laval"}, resp.Sources)

	// The deep-research flow restricts result recency.
	assert.Equal(t, "year", deps.perplexity.lastOptions.RecencyFilter)
}

func TestIdentifyCompetitors_RequiresCompanyName(t *testing.T) {
	deps := newTestService(t)

	_, err := deps.svc.IdentifyCompetitors(context.Background(), model.CompetitorIdentifyRequest{})
	require.Error(t, err)
	assert.Equal(t, TypeValidation, TypeOf(err))
	assert.Equal(t, 0, deps.perplexity.callCount())
}

func TestIdentifyCompetitors_CacheHit(t *testing.T) {
	deps := newTestService(t)
	deps.perplexity.text = identifyJSON

	req := model.CompetitorIdentifyRequest{CompanyName: "CGR"}

	first, err := deps.svc.IdentifyCompetitors(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := deps.svc.IdentifyCompetitors(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, deps.perplexity.callCount())
}

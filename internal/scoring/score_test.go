package scoring

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgr-group/prospect-api/internal/config"
	"github.com/cgr-group/prospect-api/internal/model"
)

func defaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		TargetProductMax:      3.0,
		ProposedPerProduct:    0.8,
		ProposedMax:           2.5,
		ArgumentMax:           2.5,
		OwnProductPerItem:     0.3,
		OwnProductMax:         1.5,
		SupplierMax:           1.0,
		SourceQualityMax:      0.5,
		WebsiteBonus:          0.3,
		DescriptionBonusLong:  0.2,
		DescriptionBonusShort: 0.1,
		DescriptionLongLen:    200,
		DescriptionShortLen:   120,
		DistributorPenalty:    1.5,
		EngineeringBonus:      0.5,
		GoodThreshold:         3.0,
		BackfillRatio:         0.7,
		BackfillMin:           2.0,
		BackfillMax:           3.0,
	}
}

func baseEnterprise() model.Enterprise {
	return model.Enterprise{
		Name:                "Acme Industrie",
		Website:             "https://acme.fr",
		ActivityDescription: "Fabricant d'équipements hydrauliques pour le secteur agricole, usine à Lyon",
		OwnProducts:         []string{"vérins", "pompes"},
		CGRPotential: model.CGRPotential{
			TargetProducts:   []string{"vérins"},
			ProposedProducts: []string{"ressorts de compression", "clips"},
			ApproachArgument: "L'usine de Lyon produit en série des vérins intégrant des ressorts de compression, actuellement achetés auprès de plusieurs fournisseurs européens.",
		},
		CurrentSupplierEstimate: "Lesjöfors, Ressorts Masselin, un fournisseur italien",
		Sources: []string{
			"https://acme.fr/about",
			"https://www.societe.com/societe/acme",
			"https://fr.linkedin.com/company/acme",
		},
		CompanySize:    "ETI",
		GeographicZone: "Auvergne-Rhône-Alpes",
	}
}

func TestScore_Clamped(t *testing.T) {
	cfg := defaultScoringConfig()
	s, _ := Score(baseEnterprise(), cfg)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 10.0)

	// Empty enterprise floors at zero, never negative.
	empty := model.Enterprise{Name: "X", ActivityDescription: "distributeur de pièces"}
	s, _ = Score(empty, cfg)
	assert.Equal(t, 0.0, s)
}

func TestScore_OneDecimal(t *testing.T) {
	s, _ := Score(baseEnterprise(), defaultScoringConfig())
	assert.InDelta(t, s, math.Round(s*10)/10, 1e-9)
}

func TestScore_MonotonicInTargetProducts(t *testing.T) {
	cfg := defaultScoringConfig()
	e := baseEnterprise()

	var prev float64
	for n := 0; n <= 4; n++ {
		e.CGRPotential.TargetProducts = make([]string, n)
		for i := range e.CGRPotential.TargetProducts {
			e.CGRPotential.TargetProducts[i] = fmt.Sprintf("produit %d", i)
		}
		s, _ := Score(e, cfg)
		assert.GreaterOrEqual(t, s, prev, "score must not decrease when target products grow (n=%d)", n)
		prev = s
	}
}

func TestScore_MonotonicInProposedProducts(t *testing.T) {
	cfg := defaultScoringConfig()
	e := baseEnterprise()

	var prev float64
	for n := 0; n <= 5; n++ {
		e.CGRPotential.ProposedProducts = make([]string, n)
		for i := range e.CGRPotential.ProposedProducts {
			e.CGRPotential.ProposedProducts[i] = fmt.Sprintf("ressort %d", i)
		}
		s, _ := Score(e, cfg)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestScore_DistributorPenaltyExact(t *testing.T) {
	cfg := defaultScoringConfig()

	clean := baseEnterprise()
	sClean, _ := Score(clean, cfg)
	require.Greater(t, sClean, cfg.DistributorPenalty, "fixture must score above the penalty for the delta to be exact")

	dirty := clean
	dirty.ActivityDescription = clean.ActivityDescription + " — également négoce de composants"
	sDirty, reason := Score(dirty, cfg)

	assert.InDelta(t, cfg.DistributorPenalty, sClean-sDirty, 0.11, "penalty must subtract exactly its weight before rounding")
	assert.Contains(t, reason, "distributeur")
}

func TestScore_ArgumentGatedByKeywords(t *testing.T) {
	cfg := defaultScoringConfig()
	e := baseEnterprise()
	e.CGRPotential.ProposedProducts = nil
	e.OwnProducts = nil
	e.CGRPotential.TargetProducts = nil
	e.Sources = nil
	e.Website = ""
	e.CurrentSupplierEstimate = ""
	e.ActivityDescription = "x"

	// Long but content-free argument: only the length base, no keyword share.
	e.CGRPotential.ApproachArgument = strings.Repeat("bla ", 120)
	long, _ := Score(e, cfg)

	// Same length with factory and product keywords scores strictly higher.
	e.CGRPotential.ApproachArgument = strings.Repeat("bla ", 100) + " usine qui fabrique des ressorts et pièces découpées"
	keyworded, _ := Score(e, cfg)

	assert.Greater(t, keyworded, long)
	assert.LessOrEqual(t, keyworded, cfg.ArgumentMax)
}

func TestScore_EngineeringBonus(t *testing.T) {
	cfg := defaultScoringConfig()
	e := baseEnterprise()
	base, _ := Score(e, cfg)

	e.CGRPotential.ApproachArgument += " Leur bureau d'études développe des prototypes."
	boosted, _ := Score(e, cfg)
	assert.Greater(t, boosted, base)
}

func TestScore_SourceQualityRequiresThreeAndRecognized(t *testing.T) {
	cfg := defaultScoringConfig()
	e := baseEnterprise()
	e.Sources = []string{"https://a.fr", "https://b.fr", "https://c.fr"}
	noRecognized, _ := Score(e, cfg)

	e.Sources = []string{"https://a.fr", "https://b.fr", "https://www.societe.com/x"}
	recognized, _ := Score(e, cfg)
	assert.InDelta(t, cfg.SourceQualityMax, recognized-noRecognized, 0.11)

	e.Sources = []string{"https://www.societe.com/x"}
	tooFew, _ := Score(e, cfg)
	assert.InDelta(t, noRecognized, tooFew, 0.11)
}

func TestScore_DescriptionTiersFromConfig(t *testing.T) {
	cfg := defaultScoringConfig()
	shortDesc := "usine de fabrication " + strings.Repeat("x", cfg.DescriptionShortLen)
	longDesc := "usine de fabrication " + strings.Repeat("x", cfg.DescriptionLongLen)

	e := model.Enterprise{Name: "X"}

	e.ActivityDescription = "usine"
	none, _ := Score(e, cfg)
	assert.Equal(t, 0.0, none)

	e.ActivityDescription = shortDesc
	short, _ := Score(e, cfg)
	assert.InDelta(t, cfg.DescriptionBonusShort, short, 1e-9)

	e.ActivityDescription = longDesc
	long, _ := Score(e, cfg)
	assert.InDelta(t, cfg.DescriptionBonusLong, long, 1e-9)

	// Tiers follow the configured lengths, not fixed cutoffs.
	cfg.DescriptionLongLen = 50
	e.ActivityDescription = shortDesc
	promoted, _ := Score(e, cfg)
	assert.InDelta(t, cfg.DescriptionBonusLong, promoted, 1e-9)
}

func TestSupplierPoints_Tiers(t *testing.T) {
	assert.Equal(t, 0.0, supplierPoints("", 1.0))
	assert.Equal(t, 0.2, supplierPoints("inconnu", 1.0))
	assert.Equal(t, 0.4, supplierPoints("un fournisseur allemand", 1.0))
	assert.Equal(t, 1.0, supplierPoints("Lesjöfors, Ressorts Masselin, Mubea et un fournisseur italien historique", 1.0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-2.3))
	assert.Equal(t, 10.0, clamp(14.9))
	assert.Equal(t, 7.3, clamp(7.26))
}

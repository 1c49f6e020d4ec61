package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterprise_Complete(t *testing.T) {
	m := map[string]any{
		"name":                "Acme Industrie",
		"website":             "https://acme.fr",
		"activityDescription": "Fabricant d'équipements hydrauliques",
		"ownProducts":         []any{"vérins", "pompes"},
		"cgrPotential": map[string]any{
			"targetProducts":   []any{"vérins"},
			"proposedProducts": []any{"ressorts de compression"},
			"approachArgument": "Usine à Lyon, production en série.",
		},
		"currentSupplierEstimate": "Lesjöfors",
		"sources":                 []any{"https://acme.fr/about", "junk"},
		"companySize":             "ETI",
		"geographicZone":          "Auvergne-Rhône-Alpes",
	}

	e, ok := Enterprise(m)
	require.True(t, ok)
	assert.Equal(t, "Acme Industrie", e.Name)
	assert.Equal(t, []string{"vérins"}, e.CGRPotential.TargetProducts)
	assert.Equal(t, []string{"https://acme.fr/about"}, e.Sources)
}

func TestEnterprise_MissingName(t *testing.T) {
	_, ok := Enterprise(map[string]any{"activityDescription": "Fabricant"})
	assert.False(t, ok)
}

func TestEnterprise_MissingDescription(t *testing.T) {
	_, ok := Enterprise(map[string]any{"name": "Acme"})
	assert.False(t, ok)
}

func TestEnterprise_WrongTypesCoerced(t *testing.T) {
	m := map[string]any{
		"name":                "Acme",
		"activityDescription": "Fabricant",
		"ownProducts":         "not an array",
		"cgrPotential":        "not an object",
		"companySize":         float64(250),
	}
	e, ok := Enterprise(m)
	require.True(t, ok)
	assert.NotNil(t, e.OwnProducts)
	assert.Empty(t, e.OwnProducts)
	assert.NotNil(t, e.CGRPotential.TargetProducts)
	assert.Equal(t, "250", e.CompanySize)
}

func TestEnterpriseList_CountsRejects(t *testing.T) {
	obj := map[string]any{
		"prospects": []any{
			map[string]any{"name": "A", "activityDescription": "x"},
			map[string]any{"name": ""},
			"not even an object",
		},
	}
	list, rejected := EnterpriseList(obj, "prospects")
	assert.Len(t, list, 1)
	assert.Equal(t, 2, rejected)
}

func TestCompetitorAnalysis_RequiresSummary(t *testing.T) {
	_, ok := CompetitorAnalysis("Lesjöfors", map[string]any{"companySummary": ""})
	assert.False(t, ok)

	a, ok := CompetitorAnalysis("Lesjöfors", map[string]any{
		"companySummary":   "Groupe suédois, leader européen du ressort.",
		"productsServices": []any{"ressorts industriels"},
	})
	require.True(t, ok)
	assert.Equal(t, "Lesjöfors", a.Name)
	assert.NotNil(t, a.TargetMarkets)
}

func TestIdentifiedCompetitor_RequiresDescriptiveField(t *testing.T) {
	_, ok := IdentifiedCompetitor(map[string]any{"name": "Ressorts SA"})
	assert.False(t, ok)

	c, ok := IdentifiedCompetitor(map[string]any{
		"name":               "Ressorts SA",
		"geographicPresence": "France, Allemagne",
	})
	require.True(t, ok)
	assert.Equal(t, "Ressorts SA", c.Name)
}

func TestContact_RequiredFields(t *testing.T) {
	_, ok := Contact(map[string]any{"firstName": "Marie"})
	assert.False(t, ok)

	c, ok := Contact(map[string]any{
		"lastName": "Durand",
		"position": "Responsable achats",
		"verified": true,
		"email":    "m.durand@acme.fr",
	})
	require.True(t, ok)
	assert.True(t, c.Verified)
	assert.Equal(t, "m.durand@acme.fr", c.Email)
}

func TestMarket_JustificationLength(t *testing.T) {
	short := map[string]any{"marketName": "Ferroviaire", "justification": "trop court"}
	_, ok := Market(short)
	assert.False(t, ok)

	long := map[string]any{
		"marketName":    "Ferroviaire",
		"justification": strings.Repeat("Le marché ferroviaire français ", 10),
	}
	mo, ok := Market(long)
	require.True(t, ok)
	assert.Equal(t, "Ferroviaire", mo.MarketName)
}

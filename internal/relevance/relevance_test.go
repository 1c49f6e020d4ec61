package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgr-group/prospect-api/internal/config"
)

func newFilter(t *testing.T) *Filter {
	t.Helper()
	f, err := New(config.RelevanceConfig{Threshold: 0.7})
	require.NoError(t, err)
	return f
}

func TestEvaluate_DenylistDominates(t *testing.T) {
	f := newFilter(t)

	// Shares "manager" with accepted synonyms but carries two denied
	// terms; must be rejected outright.
	d := f.Evaluate("IT Security Manager", []string{"responsable achats"})
	assert.False(t, d.Relevant)
	assert.Zero(t, d.Score)
	assert.Contains(t, d.Reason, "terme exclu")
}

func TestEvaluate_DenylistWholeWordOnly(t *testing.T) {
	f := newFilter(t)

	// "quality" contains the letters "it"; whole-word matching must not
	// trip on it.
	d := f.Evaluate("Quality Manager", nil)
	assert.True(t, d.Relevant)
	assert.Positive(t, d.Score)
}

func TestEvaluate_DenylistCases(t *testing.T) {
	f := newFilter(t)

	tests := []struct {
		name  string
		title string
	}{
		{"french IT", "Directeur Informatique"},
		{"marketing", "Responsable Marketing Digital"},
		{"sales", "Directeur Commercial"},
		{"hr accented", "Directrice des Ressources Humaines"},
		{"finance", "Responsable Comptabilité"},
		{"legal", "Juriste d'entreprise - service juridique"},
		{"short form whole word", "Chargé de mission RH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.Evaluate(tt.title, []string{"responsable achats"})
			assert.False(t, d.Relevant)
			assert.Zero(t, d.Score)
		})
	}
}

func TestEvaluate_CuratedKeywords(t *testing.T) {
	f := newFilter(t)

	d := f.Evaluate("Responsable des Achats Industriels", nil)
	assert.True(t, d.Relevant)
	assert.GreaterOrEqual(t, d.Score, 0.9)

	// Opening keyword earns the positional bonus.
	opening := f.Evaluate("Achat et approvisionnement", nil)
	inside := f.Evaluate("Coordinateur achat", nil)
	assert.Greater(t, opening.Score, inside.Score)

	// Bonus never pushes past the strong-tier ceiling.
	assert.LessOrEqual(t, opening.Score, 0.95)
}

func TestEvaluate_DiacriticFolding(t *testing.T) {
	f := newFilter(t)

	accented := f.Evaluate("Responsable Qualité", []string{"responsable qualité"})
	plain := f.Evaluate("Responsable Qualite", []string{"responsable qualite"})
	assert.Equal(t, accented, plain)
	assert.True(t, accented.Relevant)
}

func TestEvaluate_SynonymTiers(t *testing.T) {
	f := newFilter(t)
	roles := []string{"responsable achats"}

	strong := f.Evaluate("Chief Procurement Officer", roles)
	good := f.Evaluate("Lead Buyer EMEA", roles)
	fair := f.Evaluate("Approvisionneur", roles)

	assert.InDelta(t, 0.95, strong.Score, 1e-9)
	assert.GreaterOrEqual(t, good.Score, 0.85)
	assert.GreaterOrEqual(t, fair.Score, 0.75)
	assert.True(t, strong.Relevant)
	assert.True(t, good.Relevant)
	assert.True(t, fair.Relevant)
}

func TestEvaluate_PartialCategoryWord(t *testing.T) {
	f := newFilter(t)

	// "maintenance" is a distinctive word of the requested category even
	// though the full title is not in the synonym table.
	d := f.Evaluate("Coordinateur maintenance préventive", []string{"responsable maintenance"})
	assert.True(t, d.Relevant)
	assert.GreaterOrEqual(t, d.Score, 0.75)
}

func TestEvaluate_UnknownCategoryPartialMatch(t *testing.T) {
	f := newFilter(t)

	// Category absent from the table: partial word match is the only
	// available signal.
	d := f.Evaluate("Responsable industrialisation site de Lyon", []string{"responsable industrialisation"})
	assert.True(t, d.Relevant)
	assert.GreaterOrEqual(t, d.Score, 0.85)
}

func TestEvaluate_CatchAll(t *testing.T) {
	f := newFilter(t)

	d := f.Evaluate("Technicien d'essais", nil)
	assert.False(t, d.Relevant)
	assert.InDelta(t, 0.6, d.Score, 1e-9)

	d = f.Evaluate("Senior Buyer", nil)
	assert.True(t, d.Relevant)
	assert.InDelta(t, 0.75, d.Score, 1e-9)
}

func TestEvaluate_NoMatch(t *testing.T) {
	f := newFilter(t)

	d := f.Evaluate("Office Assistant", []string{"responsable achats"})
	assert.False(t, d.Relevant)
	assert.Zero(t, d.Score)
	assert.Equal(t, "aucune correspondance", d.Reason)

	empty := f.Evaluate("   ", nil)
	assert.False(t, empty.Relevant)
	assert.Zero(t, empty.Score)
}

func TestEvaluate_Deterministic(t *testing.T) {
	f := newFilter(t)
	roles := []string{"responsable achats", "directeur technique"}

	first := f.Evaluate("Directeur Technique et Achats", roles)
	for range 10 {
		assert.Equal(t, first, f.Evaluate("Directeur Technique et Achats", roles))
	}
	assert.True(t, first.Relevant)
}

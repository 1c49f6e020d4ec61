// Package relevance decides whether a contact's job title matches the
// requested role categories. A fixed denylist rejects support functions
// outright; otherwise the best score across keyword, synonym-table, and
// generic industrial matching wins. Matching is case-folded and
// diacritic-folded so "Responsable Qualité" and "responsable qualite"
// are the same title.
package relevance

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/cgr-group/prospect-api/internal/config"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

// Decision is the outcome of evaluating one job title.
type Decision struct {
	Relevant bool
	Score    float64
	Reason   string
}

// Synonym tier confidences.
const (
	strongScore = 0.95
	goodScore   = 0.85
	fairScore   = 0.75

	// partialScore applies when a significant word of the requested
	// category itself appears in the title.
	partialScore = 0.9

	// openingBonus rewards a curated keyword that opens the title,
	// capped at strongScore.
	openingBonus = 0.05
)

// Support-function terms that disqualify a title no matter what else it
// contains. Matched as substrings over the folded title.
var denySubstrings = []string{
	"informatique",
	"security",
	"securite",
	"cyber",
	"logiciel",
	"software",
	"developpeur",
	"devops",
	"marketing",
	"communication",
	"commercial",
	"sales",
	"vente",
	"ressources humaines",
	"recrutement",
	"paie",
	"finance",
	"comptab",
	"tresorerie",
	"juridique",
	"legal",
	"avocat",
	"fiscal",
}

// Ambiguous short terms matched whole-word only: "it" is a substring of
// "quality", "rh" of "rhone".
var denyWords = map[string]struct{}{
	"it":  {},
	"dsi": {},
	"rh":  {},
	"drh": {},
	"hr":  {},
}

// Curated high-relevance keywords over procurement, engineering, and
// production vocabulary. Entries are folded.
var keywordScores = []struct {
	term  string
	score float64
}{
	{"achat", 0.9},
	{"procurement", 0.9},
	{"bureau d'etudes", 0.9},
	{"qualite fournisseur", 0.9},
	{"purchasing", 0.85},
	{"industrialisation", 0.85},
	{"r&d", 0.85},
	{"sourcing", 0.8},
	{"approvisionnement", 0.8},
	{"supply chain", 0.8},
	{"methodes", 0.8},
	{"production", 0.8},
	{"fabrication", 0.8},
	{"usine", 0.8},
	{"conception", 0.75},
	{"ingenieur", 0.75},
	{"engineer", 0.75},
	{"technique", 0.75},
	{"maintenance", 0.75},
	{"qualite", 0.75},
}

// Generic industrial catch-all, tried when nothing stronger matched.
var catchAllScores = []struct {
	term  string
	score float64
}{
	{"acheteur", 0.75},
	{"buyer", 0.75},
	{"manufacturing", 0.72},
	{"industriel", 0.7},
	{"quality", 0.7},
	{"technicien", 0.6},
}

// Category-name words too generic to count as a partial match on their own.
var categoryStopwords = map[string]struct{}{
	"responsable": {},
	"directeur":   {},
	"direction":   {},
	"manager":     {},
	"head":        {},
	"chef":        {},
	"generale":    {},
}

type synonymTiers struct {
	Strong []string `yaml:"strong"`
	Good   []string `yaml:"good"`
	Fair   []string `yaml:"fair"`
}

// Filter evaluates job titles against the embedded role-synonym table.
type Filter struct {
	threshold  float64
	categories map[string]synonymTiers
}

// New parses the embedded synonym table and returns a ready filter.
func New(cfg config.RelevanceConfig) (*Filter, error) {
	var table struct {
		Categories map[string]synonymTiers `yaml:"categories"`
	}
	if err := yaml.Unmarshal(synonymsYAML, &table); err != nil {
		return nil, eris.Wrap(err, "relevance: parse synonym table")
	}

	categories := make(map[string]synonymTiers, len(table.Categories))
	for name, tiers := range table.Categories {
		categories[fold(name)] = synonymTiers{
			Strong: foldAll(tiers.Strong),
			Good:   foldAll(tiers.Good),
			Fair:   foldAll(tiers.Fair),
		}
	}

	return &Filter{threshold: cfg.Threshold, categories: categories}, nil
}

// Evaluate scores a job title against the requested role categories. The
// result is deterministic for a given (title, roles) pair. A denylisted
// term wins over any positive match.
func (f *Filter) Evaluate(title string, roles []string) Decision {
	folded := fold(title)
	if folded == "" {
		return Decision{Reason: "titre vide"}
	}

	if term, hit := denied(folded); hit {
		return Decision{Score: 0, Reason: "terme exclu: " + term}
	}

	score, reason := keywordMatch(folded)

	if s, r := f.synonymMatch(folded, roles); s > score {
		score, reason = s, r
	}

	if score == 0 {
		score, reason = catchAllMatch(folded)
	}

	if reason == "" {
		reason = "aucune correspondance"
	}
	return Decision{
		Relevant: score >= f.threshold,
		Score:    score,
		Reason:   reason,
	}
}

// Threshold reports the configured relevance cutoff.
func (f *Filter) Threshold() float64 { return f.threshold }

func denied(folded string) (string, bool) {
	for _, term := range denySubstrings {
		if strings.Contains(folded, term) {
			return term, true
		}
	}
	for _, w := range titleWords(folded) {
		if _, hit := denyWords[w]; hit {
			return w, true
		}
	}
	return "", false
}

func keywordMatch(folded string) (float64, string) {
	var best float64
	var reason string
	for _, kw := range keywordScores {
		if !strings.Contains(folded, kw.term) {
			continue
		}
		s := kw.score
		if strings.HasPrefix(folded, kw.term) {
			s += openingBonus
			if s > strongScore {
				s = strongScore
			}
		}
		if s > best {
			best = s
			reason = "mot-clé: " + kw.term
		}
	}
	return best, reason
}

func (f *Filter) synonymMatch(folded string, roles []string) (float64, string) {
	var best float64
	var reason string
	for _, role := range roles {
		category := fold(role)
		if category == "" {
			continue
		}

		tiers, known := f.categories[category]
		if known {
			for _, tier := range []struct {
				names []string
				score float64
			}{
				{tiers.Strong, strongScore},
				{tiers.Good, goodScore},
				{tiers.Fair, fairScore},
			} {
				for _, syn := range tier.names {
					if strings.Contains(folded, syn) && tier.score > best {
						best = tier.score
						reason = fmt.Sprintf("synonyme du rôle %s: %s", category, syn)
					}
				}
			}
		}

		// A distinctive word of the category name inside the title is a
		// strong signal even without a full synonym hit, and the only
		// signal available for unknown categories.
		if partialScore > best && categoryWordInTitle(category, folded) {
			best = partialScore
			reason = "correspondance partielle du rôle " + category
		}
	}
	return best, reason
}

func catchAllMatch(folded string) (float64, string) {
	for _, kw := range catchAllScores {
		if strings.Contains(folded, kw.term) {
			return kw.score, "terme industriel générique: " + kw.term
		}
	}
	return 0, ""
}

func categoryWordInTitle(category, folded string) bool {
	words := titleWords(folded)
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}
	for _, w := range titleWords(category) {
		if len(w) < 4 {
			continue
		}
		if _, stop := categoryStopwords[w]; stop {
			continue
		}
		if _, hit := wordSet[w]; hit {
			return true
		}
	}
	return false
}

func titleWords(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// fold lowercases and strips diacritics so accented and plain spellings
// compare equal. The transformer chain is stateful, so it is built per
// call rather than shared.
func fold(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func foldAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fold(s)
	}
	return out
}

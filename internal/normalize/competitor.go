package normalize

import (
	"github.com/cgr-group/prospect-api/internal/model"
)

// CompetitorAnalysis normalizes the analysis object for one named
// competitor. Rejected when the company summary is empty: a profile with no
// summary has nothing to present.
func CompetitorAnalysis(name string, m map[string]any) (model.CompetitorAnalysis, bool) {
	a := model.CompetitorAnalysis{
		Name:                  name,
		CompanySummary:        Str(m["companySummary"]),
		ProductsServices:      StrSlice(m["productsServices"]),
		TargetMarkets:         StrSlice(m["targetMarkets"]),
		ClientCompanies:       StrSlice(m["clientCompanies"]),
		ApparentStrengths:     StrSlice(m["apparentStrengths"]),
		PotentialWeaknesses:   StrSlice(m["potentialWeaknesses"]),
		CommunicationStrategy: Str(m["communicationStrategy"]),
		Sources:               URLs(m["sources"]),
	}

	if a.CompanySummary == "" {
		return model.CompetitorAnalysis{}, false
	}
	return a, true
}

// IdentifiedCompetitor normalizes one discovered competitor. Requires a
// name plus at least one descriptive field (positioning, presence, or a
// product specialty).
func IdentifiedCompetitor(m map[string]any) (model.IdentifiedCompetitor, bool) {
	c := model.IdentifiedCompetitor{
		Name:                 Str(m["name"]),
		Website:              Str(m["website"]),
		GeographicPresence:   Str(m["geographicPresence"]),
		TargetMarkets:        StrSlice(m["targetMarkets"]),
		CompanySize:          Str(m["companySize"]),
		EstimatedRevenue:     Str(m["estimatedRevenue"]),
		ProductSpecialties:   StrSlice(m["productSpecialties"]),
		ProductionType:       StrSlice(m["productionType"]),
		RecentPublications:   StrSlice(m["recentPublications"]),
		RecentNews:           StrSlice(m["recentNews"]),
		CompetitiveStrengths: StrSlice(m["competitiveStrengths"]),
		MarketPositioning:    Str(m["marketPositioning"]),
		ContactInfo:          Str(m["contactInfo"]),
		Sources:              URLs(m["sources"]),
	}

	if c.Name == "" {
		return model.IdentifiedCompetitor{}, false
	}
	if c.MarketPositioning == "" && c.GeographicPresence == "" && len(c.ProductSpecialties) == 0 {
		return model.IdentifiedCompetitor{}, false
	}
	return c, true
}

// IdentifiedCompetitorList normalizes every record under the given key.
func IdentifiedCompetitorList(obj map[string]any, key string) ([]model.IdentifiedCompetitor, int) {
	items, _ := obj[key].([]any)
	out := make([]model.IdentifiedCompetitor, 0, len(items))
	rejected := 0
	for _, item := range items {
		m := Obj(item)
		if m == nil {
			rejected++
			continue
		}
		c, ok := IdentifiedCompetitor(m)
		if !ok {
			rejected++
			continue
		}
		out = append(out, c)
	}
	return out, rejected
}

package normalize

import (
	"github.com/cgr-group/prospect-api/internal/model"
)

// minJustificationChars is the minimum length for a market justification.
// Shorter justifications are treated as non-answers and rejected.
const minJustificationChars = 200

// Contact normalizes one contact candidate. Requires a last name and a
// position; relevance scoring happens downstream, not here.
func Contact(m map[string]any) (model.Contact, bool) {
	c := model.Contact{
		LastName:    Str(m["lastName"]),
		FirstName:   Str(m["firstName"]),
		Position:    Str(m["position"]),
		Email:       Str(m["email"]),
		Phone:       Str(m["phone"]),
		LinkedInURL: Str(m["linkedinUrl"]),
		Verified:    Bool(m["verified"]),
		Sources:     URLs(m["sources"]),
	}

	if c.LastName == "" || c.Position == "" {
		return model.Contact{}, false
	}
	return c, true
}

// ContactList normalizes every record under the given key.
func ContactList(obj map[string]any, key string) ([]model.Contact, int) {
	items, _ := obj[key].([]any)
	out := make([]model.Contact, 0, len(items))
	rejected := 0
	for _, item := range items {
		m := Obj(item)
		if m == nil {
			rejected++
			continue
		}
		c, ok := Contact(m)
		if !ok {
			rejected++
			continue
		}
		out = append(out, c)
	}
	return out, rejected
}

// Market normalizes one brainstormed market opportunity. Requires a market
// name and a justification of substance.
func Market(m map[string]any) (model.MarketOpportunity, bool) {
	mo := model.MarketOpportunity{
		MarketName:            Str(m["marketName"]),
		Justification:         Str(m["justification"]),
		ApplicableCGRProducts: StrSlice(m["applicableCgrProducts"]),
		ExampleCompanies:      StrSlice(m["exampleCompanies"]),
		TargetCompanySize:     Str(m["targetCompanySize"]),
		EstimatedVolume:       Str(m["estimatedVolume"]),
	}

	if mo.MarketName == "" || len(mo.Justification) < minJustificationChars {
		return model.MarketOpportunity{}, false
	}
	return mo, true
}

// MarketList normalizes every record under the given key.
func MarketList(obj map[string]any, key string) ([]model.MarketOpportunity, int) {
	items, _ := obj[key].([]any)
	out := make([]model.MarketOpportunity, 0, len(items))
	rejected := 0
	for _, item := range items {
		m := Obj(item)
		if m == nil {
			rejected++
			continue
		}
		mo, ok := Market(m)
		if !ok {
			rejected++
			continue
		}
		out = append(out, mo)
	}
	return out, rejected
}

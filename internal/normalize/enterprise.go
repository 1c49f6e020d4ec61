package normalize

import (
	"github.com/cgr-group/prospect-api/internal/model"
)

// Enterprise normalizes one loosely-typed enterprise record. A record is
// rejected (ok=false) when its name or activity description is empty after
// coercion; everything else gets a default.
func Enterprise(m map[string]any) (model.Enterprise, bool) {
	e := model.Enterprise{
		Name:                    Str(m["name"]),
		Website:                 Str(m["website"]),
		ActivityDescription:     Str(m["activityDescription"]),
		OwnProducts:             StrSlice(m["ownProducts"]),
		CGRPotential:            cgrPotential(Obj(m["cgrPotential"])),
		CurrentSupplierEstimate: Str(m["currentSupplierEstimate"]),
		Sources:                 URLs(m["sources"]),
		CompanySize:             Str(m["companySize"]),
		GeographicZone:          Str(m["geographicZone"]),
	}

	if e.Name == "" || e.ActivityDescription == "" {
		return model.Enterprise{}, false
	}
	return e, true
}

// cgrPotential normalizes the nested CGR potential object. A nil map yields
// the empty-shaped default, never a nil-fielded struct.
func cgrPotential(m map[string]any) model.CGRPotential {
	if m == nil {
		return model.CGRPotential{
			TargetProducts:   []string{},
			ProposedProducts: []string{},
		}
	}
	return model.CGRPotential{
		TargetProducts:   StrSlice(m["targetProducts"]),
		ProposedProducts: StrSlice(m["proposedProducts"]),
		ApproachArgument: Str(m["approachArgument"]),
	}
}

// EnterpriseList normalizes every record under the given key, dropping
// rejects. The second return is the number of rejected records, surfaced in
// response diagnostics.
func EnterpriseList(obj map[string]any, key string) ([]model.Enterprise, int) {
	items, _ := obj[key].([]any)
	out := make([]model.Enterprise, 0, len(items))
	rejected := 0
	for _, item := range items {
		m := Obj(item)
		if m == nil {
			rejected++
			continue
		}
		e, ok := Enterprise(m)
		if !ok {
			rejected++
			continue
		}
		out = append(out, e)
	}
	return out, rejected
}

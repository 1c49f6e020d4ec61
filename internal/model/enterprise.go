package model

// CGRPotential describes how CGR products could land at a prospect: which of
// the prospect's products we target, which catalog products we would propose,
// and the sales argument tying them together.
type CGRPotential struct {
	TargetProducts   []string `json:"targetProducts"`
	ProposedProducts []string `json:"proposedProducts"`
	ApproachArgument string   `json:"approachArgument"`
}

// Enterprise is a candidate company as returned by the discovery provider,
// after normalization but before scoring.
type Enterprise struct {
	Name                    string       `json:"name"`
	Website                 string       `json:"website"`
	ActivityDescription     string       `json:"activityDescription"`
	OwnProducts             []string     `json:"ownProducts"`
	CGRPotential            CGRPotential `json:"cgrPotential"`
	CurrentSupplierEstimate string       `json:"currentSupplierEstimate"`
	Sources                 []string     `json:"sources"`
	CompanySize             string       `json:"companySize"`
	GeographicZone          string       `json:"geographicZone"`
}

// Prospect is an Enterprise projected for presentation, with its quality
// score attached. Prospects are created per search response and never
// persisted beyond the cache TTL.
type Prospect struct {
	Company string       `json:"company"`
	Sector  string       `json:"sector"`
	Size    string       `json:"size"`
	Address string       `json:"address"`
	Website string       `json:"website"`
	Score   float64      `json:"score"`
	Reason  string       `json:"reason"`
	Sources []string     `json:"sources"`
	CGRData CGRPotential `json:"cgrData"`
}

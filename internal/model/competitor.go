package model

// CompetitorAnalysis is the deep-dive profile produced for a single named
// competitor. Cached keyed by competitor name.
type CompetitorAnalysis struct {
	Name                  string   `json:"name"`
	CompanySummary        string   `json:"companySummary"`
	ProductsServices      []string `json:"productsServices"`
	TargetMarkets         []string `json:"targetMarkets"`
	ClientCompanies       []string `json:"clientCompanies"`
	ApparentStrengths     []string `json:"apparentStrengths"`
	PotentialWeaknesses   []string `json:"potentialWeaknesses"`
	CommunicationStrategy string   `json:"communicationStrategy"`
	Sources               []string `json:"sources"`
}

// IdentifiedCompetitor is the richer entity produced in batches (3-8 per
// search) by the competitor identification flow.
type IdentifiedCompetitor struct {
	Name                 string   `json:"name"`
	Website              string   `json:"website"`
	GeographicPresence   string   `json:"geographicPresence"`
	TargetMarkets        []string `json:"targetMarkets"`
	CompanySize          string   `json:"companySize"`
	EstimatedRevenue     string   `json:"estimatedRevenue"`
	ProductSpecialties   []string `json:"productSpecialties"`
	ProductionType       []string `json:"productionType"`
	RecentPublications   []string `json:"recentPublications"`
	RecentNews           []string `json:"recentNews"`
	CompetitiveStrengths []string `json:"competitiveStrengths"`
	MarketPositioning    string   `json:"marketPositioning"`
	ContactInfo          string   `json:"contactInfo"`
	Sources              []string `json:"sources"`
}

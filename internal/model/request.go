package model

// SearchType discriminates the five search flavors on both requests and
// responses.
type SearchType string

const (
	SearchEnterprises   SearchType = "entreprises"
	SearchBrainstorming SearchType = "brainstorming"
	SearchCompetitor    SearchType = "concurrent"
	SearchIdentify      SearchType = "competitor-identification"
	SearchContacts      SearchType = "contacts"
)

// MaxResults caps the requested result count for enterprise searches.
// Requests above the cap are rejected before any provider call.
const MaxResults = 15

// EnterpriseSearchRequest is the inbound shape for a prospect search.
type EnterpriseSearchRequest struct {
	Sectors           []string `json:"secteurs" validate:"omitempty,dive,min=1"`
	FreeTextSector    string   `json:"secteurLibre"`
	GeographicZones   []string `json:"zonesGeographiques"`
	FreeTextZone      string   `json:"zoneLibre"`
	CompanySize       string   `json:"tailleEntreprise"`
	Products          []string `json:"produits"`
	Exclusions        []string `json:"exclusions"`
	FactoryReferences []string `json:"referencesUsines"`
	ResultCount       int      `json:"nombreResultats" validate:"omitempty,min=1,max=15"`
}

// BrainstormRequest asks for market opportunities across sectors.
type BrainstormRequest struct {
	Sectors        []string `json:"secteurs"`
	FreeTextSector string   `json:"secteurLibre"`
	Products       []string `json:"produits"`
	GeographicZone string   `json:"zoneGeographique"`
	MarketCount    int      `json:"nombreMarches" validate:"omitempty,min=1,max=10"`
}

// CompetitorAnalysisRequest asks for a deep dive on one or more named
// competitors.
type CompetitorAnalysisRequest struct {
	CompetitorNames []string `json:"concurrents" validate:"required,min=1,dive,min=1"`
}

// CompetitorIdentifyRequest asks the provider to discover competitors of a
// given company.
type CompetitorIdentifyRequest struct {
	CompanyName    string `json:"nomEntreprise" validate:"required"`
	Website        string `json:"siteWeb" validate:"omitempty,url"`
	GeographicZone string `json:"zoneGeographique"`
}

// ContactSearchRequest asks for contacts at a target company, filtered by
// requested role categories.
type ContactSearchRequest struct {
	CompanyName string   `json:"nomEntreprise" validate:"required"`
	Website     string   `json:"siteWeb" validate:"omitempty,url"`
	Roles       []string `json:"rolesRecherches"`
	Product     string   `json:"produit"`
}

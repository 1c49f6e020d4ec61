package model

// Contact is a single person candidate returned by the enrichment provider.
// Contacts whose RelevanceScore falls below the configured threshold are
// dropped before response assembly; they never reach the caller.
type Contact struct {
	LastName       string   `json:"lastName"`
	FirstName      string   `json:"firstName"`
	Position       string   `json:"position"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	LinkedInURL    string   `json:"linkedinUrl,omitempty"`
	Verified       bool     `json:"verified"`
	CustomPitch    string   `json:"customPitch,omitempty"`
	RelevanceScore float64  `json:"relevanceScore"`
	Sources        []string `json:"sources"`
}

// MarketOpportunity is one brainstormed market suggestion. Exactly N
// (default 5) are returned per brainstorming call, distributed across the
// requested sectors.
type MarketOpportunity struct {
	MarketName            string   `json:"marketName"`
	Justification         string   `json:"justification"`
	ApplicableCGRProducts []string `json:"applicableCgrProducts"`
	ExampleCompanies      []string `json:"exampleCompanies"`
	TargetCompanySize     string   `json:"targetCompanySize"`
	EstimatedVolume       string   `json:"estimatedVolume"`
}

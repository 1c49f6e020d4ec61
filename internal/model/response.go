package model

// Debug carries pipeline diagnostics attached to every response. It is not
// contractual; the UI uses it for operational visibility only.
type Debug struct {
	Provider      string `json:"provider,omitempty"`
	Model         string `json:"model,omitempty"`
	RawCandidates int    `json:"rawCandidates,omitempty"`
	Rejected      int    `json:"rejected,omitempty"`
	Repaired      bool   `json:"repaired,omitempty"`
	Backfilled    int    `json:"backfilled,omitempty"`
	DurationMS    int64  `json:"durationMs,omitempty"`
}

// EnterpriseSearchResponse carries ranked prospects.
type EnterpriseSearchResponse struct {
	SearchType SearchType `json:"searchType"`
	Prospects  []Prospect `json:"prospects"`
	TotalFound int        `json:"totalFound"`
	Cached     bool       `json:"cached"`
	Sources    []string   `json:"sources"`
	Debug      *Debug     `json:"debug,omitempty"`
}

// BrainstormResponse carries market opportunities.
type BrainstormResponse struct {
	SearchType SearchType          `json:"searchType"`
	Markets    []MarketOpportunity `json:"markets"`
	TotalFound int                 `json:"totalFound"`
	Cached     bool                `json:"cached"`
	Sources    []string            `json:"sources"`
	Debug      *Debug              `json:"debug,omitempty"`
}

// CompetitorAnalysisResponse carries one analysis per requested competitor.
type CompetitorAnalysisResponse struct {
	SearchType SearchType           `json:"searchType"`
	Analyses   []CompetitorAnalysis `json:"analyses"`
	TotalFound int                  `json:"totalFound"`
	Cached     bool                 `json:"cached"`
	Sources    []string             `json:"sources"`
	Debug      *Debug               `json:"debug,omitempty"`
}

// CompetitorIdentifyResponse carries discovered competitors.
type CompetitorIdentifyResponse struct {
	SearchType  SearchType             `json:"searchType"`
	Competitors []IdentifiedCompetitor `json:"competitors"`
	TotalFound  int                    `json:"totalFound"`
	Cached      bool                   `json:"cached"`
	Sources     []string               `json:"sources"`
	Debug       *Debug                 `json:"debug,omitempty"`
}

// ContactSearchResponse carries relevance-filtered contacts.
type ContactSearchResponse struct {
	SearchType SearchType `json:"searchType"`
	Contacts   []Contact  `json:"contacts"`
	TotalFound int        `json:"totalFound"`
	Cached     bool       `json:"cached"`
	Sources    []string   `json:"sources"`
	Debug      *Debug     `json:"debug,omitempty"`
}

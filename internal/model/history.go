package model

import "time"

// SearchHistoryRecord is one row of the append-only search log. Records are
// inserted after a successful search and never mutated or deleted.
type SearchHistoryRecord struct {
	ID            string    `json:"id"`
	Product       string    `json:"product"`
	Location      string    `json:"location"`
	ReferenceURLs []string  `json:"referenceUrls"`
	ResultsCount  int       `json:"resultsCount"`
	SearchQuery   string    `json:"searchQuery"`
	CreatedAt     time.Time `json:"createdAt"`
}

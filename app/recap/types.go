package recap

import (
	"time"
)

type Section struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
}

// Recap is the structured narrative summary of one source's recent events.
type Recap struct {
	SourceName       string    `json:"source_name"`
	Hours            int       `json:"hours"`
	Title            string    `json:"title"`
	ExecutiveSummary string    `json:"executive_summary"`
	Sections         []Section `json:"sections"`
	Insights         *string   `json:"insights"`
	TotalEvents      int       `json:"total_events"`
	TimeRange        string    `json:"time_range"`
	GeneratedAt      time.Time `json:"generated_at"`
}

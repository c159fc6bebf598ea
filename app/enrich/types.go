package enrich

// Result is the structured output of one enrichment call. Nullable fields
// are pointers; Category is free text until normalized against the closed
// category set.
type Result struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	LocationName *string  `json:"location_name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Category     string   `json:"category"`
	Confidence   *float64 `json:"confidence_score"`
}

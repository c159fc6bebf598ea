package database

import (
	"time"
)

// Event is an enriched, persisted news event. Nullable columns map to
// pointer fields. Events are never mutated after insert; only the
// retention sweep removes them.
type Event struct {
	ID           int64
	SourceName   string
	OriginalURL  string
	OriginalText string
	Title        string
	Summary      string
	LocationName *string
	Latitude     *float64
	Longitude    *float64
	Category     string
	Confidence   *float64
	DetectedAt   time.Time
	OriginalAt   *time.Time
	ContentHash  string
}

// EventFilter narrows event list/count queries.
type EventFilter struct {
	Since    time.Time
	Category string
	Source   string // substring match
	Limit    int
	Offset   int
}

// SourceActivity summarizes one source's recent output.
type SourceActivity struct {
	SourceName  string
	EventCount  int
	LatestEvent time.Time
}

// StoreStats aggregates store-wide counters for the stats endpoint.
type StoreStats struct {
	TotalEvents      int
	EventsLast24h    int
	EventsByCategory map[string]int
	EventsBySource   map[string]int
	LastUpdate       *time.Time
}

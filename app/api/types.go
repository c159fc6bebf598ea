package api

import (
	"time"

	"geonews/app/database"
	"geonews/app/recap"
	"geonews/app/sources"
)

type Handler struct {
	events   database.EventRepository
	recaps   *recap.Generator
	registry []sources.Source
}

type EventResponse struct {
	ID           int64      `json:"id"`
	SourceName   string     `json:"source_name"`
	OriginalURL  string     `json:"original_url,omitempty"`
	OriginalText string     `json:"original_text,omitempty"`
	Title        string     `json:"title,omitempty"`
	Summary      string     `json:"summary"`
	LocationName *string    `json:"location_name"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Category     string     `json:"category"`
	Confidence   *float64   `json:"confidence_score"`
	DetectedAt   time.Time  `json:"timestamp_detected"`
	OriginalAt   *time.Time `json:"timestamp_original"`
}

type EventsListResponse struct {
	Events        []EventResponse `json:"events"`
	Total         int             `json:"total"`
	FilteredHours int             `json:"filtered_hours"`
}

func toEventResponse(e database.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		SourceName:   e.SourceName,
		OriginalURL:  e.OriginalURL,
		OriginalText: e.OriginalText,
		Title:        e.Title,
		Summary:      e.Summary,
		LocationName: e.LocationName,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		Category:     e.Category,
		Confidence:   e.Confidence,
		DetectedAt:   e.DetectedAt,
		OriginalAt:   e.OriginalAt,
	}
}

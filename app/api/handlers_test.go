package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"geonews/app/database"
	"geonews/app/recap"
)

type fakeEventRepo struct {
	database.EventRepository
	events     []database.Event
	lastFilter database.EventFilter
	failList   bool
}

func (f *fakeEventRepo) CountEvents(ctx context.Context, filter database.EventFilter) (int, error) {
	return len(f.events), nil
}

func (f *fakeEventRepo) ListEvents(ctx context.Context, filter database.EventFilter) ([]database.Event, error) {
	f.lastFilter = filter
	if f.failList {
		return nil, fmt.Errorf("database gone")
	}
	return f.events, nil
}

func (f *fakeEventRepo) GetEvent(ctx context.Context, id int64) (*database.Event, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) GetEventsBySource(ctx context.Context, sourceName string, since time.Time) ([]database.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) GetActiveSources(ctx context.Context, since time.Time) ([]database.SourceActivity, error) {
	return []database.SourceActivity{
		{SourceName: "Ynet Breaking", EventCount: 4, LatestEvent: time.Now().UTC()},
	}, nil
}

func (f *fakeEventRepo) GetStats(ctx context.Context) (*database.StoreStats, error) {
	return &database.StoreStats{
		TotalEvents:      len(f.events),
		EventsByCategory: map[string]int{"general": len(f.events)},
		EventsBySource:   map[string]int{},
	}, nil
}

type disabledCompleter struct{}

func (disabledCompleter) Enabled() bool { return false }

func (disabledCompleter) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return "", fmt.Errorf("not configured")
}

func testServer(repo *fakeEventRepo) *gin.Engine {
	handler := NewHandler(repo, recap.NewGenerator(repo, disabledCompleter{}), nil)
	return NewServer(handler)
}

func doRequest(t *testing.T, server *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestGetEvents(t *testing.T) {
	location := "Tehran"
	repo := &fakeEventRepo{
		events: []database.Event{
			{
				ID:           1,
				SourceName:   "Ynet Breaking",
				Title:        "כותרת",
				Summary:      "סיכום",
				Category:     "military",
				LocationName: &location,
				DetectedAt:   time.Now().UTC(),
			},
		},
	}
	server := testServer(repo)

	w := doRequest(t, server, http.MethodGet, "/events")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response EventsListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Total != 1 || len(response.Events) != 1 {
		t.Fatalf("Unexpected response: %+v", response)
	}
	if response.FilteredHours != 24 {
		t.Errorf("Expected default 24-hour window, got %d", response.FilteredHours)
	}
	if response.Events[0].SourceName != "Ynet Breaking" {
		t.Errorf("Unexpected event: %+v", response.Events[0])
	}
}

func TestGetEvents_QueryParams(t *testing.T) {
	repo := &fakeEventRepo{}
	server := testServer(repo)

	w := doRequest(t, server, http.MethodGet, "/events?hours=48&category=military&source=Ynet&limit=5&offset=10")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	filter := repo.lastFilter
	if filter.Category != "military" || filter.Source != "Ynet" {
		t.Errorf("Unexpected filter: %+v", filter)
	}
	if filter.Limit != 5 || filter.Offset != 10 {
		t.Errorf("Unexpected pagination: limit=%d offset=%d", filter.Limit, filter.Offset)
	}

	expectedSince := time.Now().UTC().Add(-48 * time.Hour)
	if diff := filter.Since.Sub(expectedSince); diff < -time.Minute || diff > time.Minute {
		t.Errorf("Expected since near %v, got %v", expectedSince, filter.Since)
	}
}

func TestGetEvents_InvalidParamsFallBack(t *testing.T) {
	repo := &fakeEventRepo{}
	server := testServer(repo)

	w := doRequest(t, server, http.MethodGet, "/events?hours=9999&limit=abc")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response EventsListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.FilteredHours != 24 {
		t.Errorf("Out-of-range hours must fall back to 24, got %d", response.FilteredHours)
	}
	if repo.lastFilter.Limit != 100 {
		t.Errorf("Invalid limit must fall back to 100, got %d", repo.lastFilter.Limit)
	}
}

func TestGetEvents_StoreError(t *testing.T) {
	server := testServer(&fakeEventRepo{failList: true})

	w := doRequest(t, server, http.MethodGet, "/events")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestGetEvent(t *testing.T) {
	repo := &fakeEventRepo{
		events: []database.Event{
			{ID: 7, SourceName: "Haaretz", Summary: "סיכום", Category: "political", DetectedAt: time.Now().UTC()},
		},
	}
	server := testServer(repo)

	w := doRequest(t, server, http.MethodGet, "/events/7")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var event EventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &event); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if event.ID != 7 || event.SourceName != "Haaretz" {
		t.Errorf("Unexpected event: %+v", event)
	}

	if w := doRequest(t, server, http.MethodGet, "/events/999"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing event, got %d", w.Code)
	}
	if w := doRequest(t, server, http.MethodGet, "/events/abc"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	repo := &fakeEventRepo{
		events: []database.Event{{ID: 1}, {ID: 2}},
	}
	server := testServer(repo)

	w := doRequest(t, server, http.MethodGet, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats["total_events"].(float64) != 2 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestGetCategories(t *testing.T) {
	server := testServer(&fakeEventRepo{})

	w := doRequest(t, server, http.MethodGet, "/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response struct {
		Categories []struct {
			ID    string `json:"id"`
			Color string `json:"color"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Categories) != 5 {
		t.Fatalf("Expected 5 categories, got %d", len(response.Categories))
	}
	if response.Categories[0].ID != "military" {
		t.Errorf("Unexpected first category: %+v", response.Categories[0])
	}
}

func TestGetRecapSources(t *testing.T) {
	server := testServer(&fakeEventRepo{})

	w := doRequest(t, server, http.MethodGet, "/recap/sources")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response struct {
		Sources []map[string]any `json:"sources"`
		Total   int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Total != 1 || response.Sources[0]["source_name"] != "Ynet Breaking" {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestGenerateRecap(t *testing.T) {
	server := testServer(&fakeEventRepo{})

	// Missing source_name is a client error.
	if w := doRequest(t, server, http.MethodPost, "/recap/generate"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without source_name, got %d", w.Code)
	}

	// An empty window returns the canned recap without touching the model.
	w := doRequest(t, server, http.MethodPost, "/recap/generate?source_name=Quiet+Source")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response struct {
		Success bool         `json:"success"`
		Recap   *recap.Recap `json:"recap"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Success || response.Recap == nil {
		t.Fatalf("Unexpected response: %+v", response)
	}
	if response.Recap.SourceName != "Quiet Source" || response.Recap.TotalEvents != 0 {
		t.Errorf("Unexpected recap: %+v", response.Recap)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := testServer(&fakeEventRepo{})

	w := doRequest(t, server, http.MethodOptions, "/events")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight response")
	}
}

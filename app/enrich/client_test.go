package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnrich_UnconfiguredClient(t *testing.T) {
	client := NewClient("https://api.openai.com/v1", "gpt-4o-mini", "", 5*time.Second)

	result, err := client.Enrich(context.Background(), "A long enough piece of news text", "Test")
	if err != nil {
		t.Fatalf("Unconfigured client should not error, got: %v", err)
	}
	if result != nil {
		t.Error("Unconfigured client should return an absent result")
	}
}

func TestEnrich_ShortText(t *testing.T) {
	client := NewClient("https://api.openai.com/v1", "gpt-4o-mini", "test-key", 5*time.Second)

	result, err := client.Enrich(context.Background(), "too short", "Test")
	if err != nil {
		t.Fatalf("Short text should not error, got: %v", err)
	}
	if result != nil {
		t.Error("Short text should return an absent result without calling the API")
	}
}

func TestEnrich_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %s", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"כותרת\",\"summary\":\"סיכום\",\"location_name\":\"Tehran\",\"latitude\":35.69,\"longitude\":51.42,\"category\":\"Military\",\"confidence_score\":0.9}"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "gpt-4o-mini", "test-key", 5*time.Second)

	result, err := client.Enrich(context.Background(), "A long enough piece of news text about a strike", "Test")
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if result == nil {
		t.Fatal("Expected a result")
	}

	if result.Title != "כותרת" {
		t.Errorf("Unexpected title: %q", result.Title)
	}
	if result.Category != "military" {
		t.Errorf("Expected lowercased category, got %q", result.Category)
	}
	if result.LocationName == nil || *result.LocationName != "Tehran" {
		t.Errorf("Unexpected location name: %v", result.LocationName)
	}
	if result.Confidence == nil || *result.Confidence != 0.9 {
		t.Errorf("Unexpected confidence: %v", result.Confidence)
	}
}

func TestEnrich_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"not json at all"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "gpt-4o-mini", "test-key", 5*time.Second)

	result, err := client.Enrich(context.Background(), "A long enough piece of news text", "Test")
	if err == nil {
		t.Error("Expected an error for an unparseable model response")
	}
	if result != nil {
		t.Error("Expected no result for an unparseable model response")
	}
}

func TestEnrich_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "gpt-4o-mini", "test-key", 5*time.Second)

	_, err := client.Enrich(context.Background(), "A long enough piece of news text", "Test")
	if err == nil {
		t.Error("Expected an error for an HTTP error status")
	}
}

func TestDecodeResult_Defaults(t *testing.T) {
	result, err := decodeResult(`{"title":"t","summary":"s"}`)
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}

	if result.Category != CategoryGeneral {
		t.Errorf("Missing category should default to general, got %q", result.Category)
	}
	if result.LocationName != nil {
		t.Error("Missing location name should stay nil")
	}
	if result.Latitude != nil || result.Longitude != nil {
		t.Error("Missing coordinates should stay nil")
	}
	if result.Confidence != nil {
		t.Error("Missing confidence should stay nil")
	}
}

func TestDecodeResult_BlankLocationName(t *testing.T) {
	result, err := decodeResult(`{"title":"t","summary":"s","location_name":"  "}`)
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}

	if result.LocationName != nil {
		t.Error("Blank location name should be treated as absent")
	}
}

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// minTextLength is the shortest input (in runes) worth sending to the model.
const minTextLength = 10

const systemPrompt = `You are an expert intelligence analyst specializing in global geopolitical events. Your task is to analyze news text (in Hebrew, Arabic, or English) and extract structured information.

For each piece of text, you must:
1. Extract or create a concise headline/title in HEBREW. Translate the original title if one exists.
2. Identify the most specific physical location mentioned and convert it into latitude/longitude coordinates.
3. Create a concise, factual 1-2 sentence summary in HEBREW. Be neutral and objective.
4. Classify into one of these categories:
   - "military" - Military operations, strikes, interceptions, drone activity
   - "political" - Political statements, diplomatic events, government actions
   - "casualties" - Reports of injuries, deaths, humanitarian incidents
   - "infrastructure" - Damage to buildings, roads, utilities, civilian structures
   - "general" - Other news that doesn't fit above categories

GEOLOCATION RULES:
- If you provide a location_name, you MUST also provide latitude and longitude.
- For cities use the city center; for countries use the capital or geographic center; for regions use a central point.
- Only use null coordinates if no location is mentioned at all.

You must respond ONLY with a valid JSON object, no other text. Example:
{
  "title": "צה״ל מיירט רחפן מעל צפון עזה",
  "summary": "כוחות צה״ל דיווחו על זיהוי ויירוט מזל״ט עוין שחדר מצפון רצועת עזה. לא דווח על נפגעים.",
  "location_name": "צפון רצועת עזה",
  "latitude": 31.55,
  "longitude": 34.50,
  "category": "military",
  "confidence_score": 0.95
}`

// Client calls an OpenAI-compatible chat completion API. A client with no
// API key is valid but disabled: Enrich returns absent for every input.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Enrich extracts structured information from raw news text. It returns
// (nil, nil) when the result is absent for a non-error reason: the client
// is unconfigured or the text is too short to be worth a call.
func (c *Client) Enrich(ctx context.Context, text, sourceHint string) (*Result, error) {
	if !c.Enabled() {
		slog.Debug("Enrichment client not configured, skipping")
		return nil, nil
	}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minTextLength {
		slog.Debug("Text too short for enrichment", "length", utf8.RuneCountInString(trimmed))
		return nil, nil
	}

	userMessage := trimmed
	if sourceHint != "" {
		userMessage = fmt.Sprintf("Source: %s\n\nText to analyze:\n%s", sourceHint, trimmed)
	}

	content, err := c.Complete(ctx, systemPrompt, userMessage, 500, 0.3)
	if err != nil {
		return nil, fmt.Errorf("enrichment call failed: %w", err)
	}

	result, err := decodeResult(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode enrichment response: %w", err)
	}

	return result, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single system+user exchange and returns the raw
// assistant message. JSON response mode is always requested.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	payload.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat API error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty chat response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// decodeResult parses the model's JSON with field-level leniency: a missing
// category defaults to "general", other missing fields stay nil. Only
// structurally invalid JSON fails the decode.
func decodeResult(content string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}

	if result.Category == "" {
		result.Category = CategoryGeneral
	} else {
		result.Category = strings.ToLower(result.Category)
	}

	if result.LocationName != nil && strings.TrimSpace(*result.LocationName) == "" {
		result.LocationName = nil
	}

	return &result, nil
}

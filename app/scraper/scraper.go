package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"geonews/app/database"
	"geonews/app/enrich"
	"geonews/app/metrics"
	"geonews/app/sources"
)

const (
	// minCombinedTextLength is the shortest entry text worth processing.
	minCombinedTextLength = 20
	// maxStoredTextLength bounds the raw text kept on the event row.
	maxStoredTextLength = 2000
)

// Enricher turns raw news text into a structured result. A (nil, nil)
// return means the result is absent without being an error.
type Enricher interface {
	Enrich(ctx context.Context, text, sourceHint string) (*enrich.Result, error)
}

type Options struct {
	MaxFirstRunEntries int
	FetchTimeout       time.Duration
	EnrichTimeout      time.Duration
	UserAgent          string
	// ExtractFullText fetches and extracts the linked article when a feed
	// entry has no body of its own.
	ExtractFullText bool
}

// Scraper sweeps the source registry, filters entries against per-source
// watermarks, enriches candidates, and persists deduplicated events.
type Scraper struct {
	registry   []sources.Source
	events     database.EventRepository
	watermarks database.WatermarkRepository
	enricher   Enricher
	httpClient *http.Client
	parser     *gofeed.Parser
	extractor  *ContentExtractor
	opts       Options
}

func New(registry []sources.Source, events database.EventRepository,
	watermarks database.WatermarkRepository, enricher Enricher,
	httpClient *http.Client, opts Options) *Scraper {
	if opts.MaxFirstRunEntries <= 0 {
		opts.MaxFirstRunEntries = 10
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = 30 * time.Second
	}

	return &Scraper{
		registry:   registry,
		events:     events,
		watermarks: watermarks,
		enricher:   enricher,
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		extractor:  NewContentExtractor(),
		opts:       opts,
	}
}

// RunFullSweep scrapes every registered source sequentially and returns the
// number of events saved. A single source's failure is logged and does not
// stop the sweep; cancellation stops it between sources.
func (s *Scraper) RunFullSweep(ctx context.Context) int {
	slog.Info("Starting full sweep", "sources", len(s.registry))

	totalSaved := 0
	for _, src := range s.registry {
		if ctx.Err() != nil {
			slog.Info("Sweep aborted", "saved", totalSaved)
			return totalSaved
		}

		saved, err := s.ScrapeSource(ctx, src)
		if err != nil {
			slog.Error("Failed to scrape source", "source", src.Name, "error", err)
			metrics.ScrapeErrors.WithLabelValues(src.Name).Inc()
			continue
		}
		totalSaved += saved
	}

	slog.Info("Full sweep complete", "saved", totalSaved, "sources", len(s.registry))
	return totalSaved
}

// ScrapeSource runs the pipeline for one source: determine first-run vs
// incremental mode, fetch, filter by watermark, enrich and persist each
// candidate, then advance the watermark.
func (s *Scraper) ScrapeSource(ctx context.Context, src sources.Source) (int, error) {
	started := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(started).Seconds())
	}()

	watermark, err := s.watermarks.GetWatermark(ctx, src.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to read watermark: %w", err)
	}

	firstRun := watermark == nil
	if firstRun {
		slog.Info("First run for source", "source", src.Name, "cap", s.opts.MaxFirstRunEntries)
	} else {
		slog.Debug("Incremental run for source", "source", src.Name, "watermark", watermark)
	}

	feed, err := s.fetchFeed(ctx, src.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if len(feed.Items) == 0 {
		slog.Warn("No entries found in feed", "source", src.Name)
		// Advance to now so a persistently empty feed is not rechecked
		// against a stale cursor forever.
		if err := s.watermarks.AdvanceWatermark(ctx, src.Name, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("failed to advance watermark: %w", err)
		}
		return 0, nil
	}

	candidates := s.selectCandidates(feed.Items, watermark, firstRun)
	slog.Debug("Selected candidates", "source", src.Name, "total", len(feed.Items), "candidates", len(candidates))

	if len(candidates) == 0 {
		if err := s.watermarks.AdvanceWatermark(ctx, src.Name, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("failed to advance watermark: %w", err)
		}
		return 0, nil
	}

	var newest *time.Time
	saved := 0
	for _, item := range candidates {
		if ctx.Err() != nil {
			break
		}

		if published := entryDate(item); published != nil {
			if newest == nil || published.After(*newest) {
				newest = published
			}
		}

		event := s.processEntry(ctx, src, item)
		if event == nil {
			continue
		}

		inserted, err := s.events.InsertEvent(ctx, *event)
		if err != nil {
			slog.Error("Failed to store event", "source", src.Name, "url", event.OriginalURL, "error", err)
			continue
		}
		if !inserted {
			slog.Debug("Duplicate event skipped", "source", src.Name, "hash", event.ContentHash[:16])
			metrics.EventsDuplicate.Inc()
			continue
		}

		slog.Info("Saved event", "source", src.Name, "title", event.Title, "category", event.Category)
		metrics.EventsSaved.WithLabelValues(src.Name).Inc()
		saved++
	}

	cursor := time.Now().UTC()
	if newest != nil {
		cursor = *newest
	}
	if err := s.watermarks.AdvanceWatermark(ctx, src.Name, cursor); err != nil {
		return saved, fmt.Errorf("failed to advance watermark: %w", err)
	}

	return saved, nil
}

// selectCandidates applies the fetch policy. First run takes the N
// most-recently-listed entries in feed order. Incremental runs keep every
// entry dated strictly after the watermark; entries with no parseable date
// are included rather than silently dropped.
func (s *Scraper) selectCandidates(items []*gofeed.Item, watermark *time.Time, firstRun bool) []*gofeed.Item {
	if firstRun {
		if len(items) > s.opts.MaxFirstRunEntries {
			return items[:s.opts.MaxFirstRunEntries]
		}
		return items
	}

	var candidates []*gofeed.Item
	for _, item := range items {
		published := entryDate(item)
		if published == nil || published.After(*watermark) {
			candidates = append(candidates, item)
		}
	}
	return candidates
}

// processEntry builds the combined text, enriches it, and assembles the
// event. Returns nil when the entry is skipped for any reason; a skipped
// entry never affects its siblings.
func (s *Scraper) processEntry(ctx context.Context, src sources.Source, item *gofeed.Item) *database.Event {
	fullText := s.combinedText(ctx, item)
	if utf8.RuneCountInString(fullText) < minCombinedTextLength {
		slog.Debug("Skipping short entry", "source", src.Name, "link", item.Link)
		return nil
	}

	enrichCtx, cancel := context.WithTimeout(ctx, s.opts.EnrichTimeout)
	defer cancel()

	result, err := s.enricher.Enrich(enrichCtx, fullText, src.Name)
	if err != nil {
		slog.Error("Enrichment failed for entry", "source", src.Name, "link", item.Link, "error", err)
		metrics.EnrichmentFailures.Inc()
		return nil
	}
	if result == nil {
		slog.Debug("Enrichment absent for entry", "source", src.Name, "link", item.Link)
		return nil
	}

	locationName := ""
	if result.LocationName != nil {
		locationName = *result.LocationName
	}
	lat, lon := enrich.ResolveCoordinates(locationName, result.Latitude, result.Longitude)

	entryURL := item.Link
	if entryURL == "" {
		entryURL = src.URL
	}

	return &database.Event{
		SourceName:   src.Name,
		OriginalURL:  entryURL,
		OriginalText: truncate(fullText, maxStoredTextLength),
		Title:        result.Title,
		Summary:      result.Summary,
		LocationName: result.LocationName,
		Latitude:     lat,
		Longitude:    lon,
		Category:     enrich.NormalizeCategory(result.Category),
		Confidence:   result.Confidence,
		DetectedAt:   time.Now().UTC(),
		OriginalAt:   entryDate(item),
		ContentHash:  EntryHash(fullText, entryURL),
	}
}

// combinedText joins the entry title and its first non-empty body field
// with a blank line, matching the enrichment input format.
func (s *Scraper) combinedText(ctx context.Context, item *gofeed.Item) string {
	content := item.Description
	if content == "" {
		content = item.Content
	}

	if content == "" && s.opts.ExtractFullText && item.Link != "" {
		extracted, err := s.extractLinkedContent(ctx, item.Link)
		if err != nil {
			slog.Debug("Full-text extraction failed", "link", item.Link, "error", err)
		} else {
			content = extracted
		}
	}

	if content == "" {
		return item.Title
	}
	return item.Title + "\n\n" + content
}

func (s *Scraper) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return feed, nil
}

func (s *Scraper) extractLinkedContent(ctx context.Context, url string) (string, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return s.extractor.Run(data)
}

func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// entryDate returns the entry's publish date, falling back to the update
// date, or nil when neither parsed.
func entryDate(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

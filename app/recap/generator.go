package recap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"geonews/app/database"
)

const systemPrompt = `You are an expert intelligence analyst creating daily news recaps for Middle Eastern geopolitical events.

Analyze a collection of news events and create a comprehensive, well-structured recap in HEBREW. The recap should start with an executive summary, group events by theme or region, connect related events, and note trends if any emerge. Maintain objectivity.

Return ONLY a JSON object with this structure:
{
  "title": "כותרת הסיכום היומי",
  "executive_summary": "פסקת סיכום מנהלים בעברית",
  "sections": [
    {
      "heading": "כותרת נושא/אזור",
      "items": ["פריט ראשון", "פריט שני"]
    }
  ],
  "insights": "מגמות ותובנות (או null אם אין)"
}`

// ChatCompleter is the slice of the enrichment client the generator needs.
type ChatCompleter interface {
	Enabled() bool
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// Generator produces on-demand narrative recaps of a source's events
// within a time window.
type Generator struct {
	events    database.EventRepository
	completer ChatCompleter
}

func NewGenerator(events database.EventRepository, completer ChatCompleter) *Generator {
	return &Generator{events: events, completer: completer}
}

// AvailableSources lists sources with events in the last 24 hours.
func (g *Generator) AvailableSources(ctx context.Context) ([]database.SourceActivity, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	return g.events.GetActiveSources(ctx, since)
}

// Generate builds a recap for one source over the last N hours. An empty
// window returns a canned recap without calling the model.
func (g *Generator) Generate(ctx context.Context, sourceName string, hours int) (*Recap, error) {
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	events, err := g.events.GetEventsBySource(ctx, sourceName, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	if len(events) == 0 {
		slog.Info("No events for recap", "source", sourceName, "hours", hours)
		return emptyRecap(sourceName, hours), nil
	}

	if !g.completer.Enabled() {
		return nil, fmt.Errorf("chat client not configured")
	}

	content, err := g.completer.Complete(ctx, systemPrompt, buildUserMessage(sourceName, hours, events), 2000, 0.5)
	if err != nil {
		return nil, fmt.Errorf("recap generation failed: %w", err)
	}

	var recap Recap
	if err := json.Unmarshal([]byte(content), &recap); err != nil {
		return nil, fmt.Errorf("failed to decode recap response: %w", err)
	}

	recap.SourceName = sourceName
	recap.Hours = hours
	recap.TotalEvents = len(events)
	recap.TimeRange = fmt.Sprintf("%d שעות אחרונות", hours)
	recap.GeneratedAt = time.Now().UTC()

	slog.Info("Generated recap", "source", sourceName, "events", len(events))
	return &recap, nil
}

// buildUserMessage renders the events as a numbered list the model can
// summarize.
func buildUserMessage(sourceName string, hours int, events []database.Event) string {
	var lines []string
	for i, event := range events {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. ", i+1)
		if event.Title != "" {
			b.WriteString(event.Title)
			b.WriteString(" - ")
		}
		b.WriteString(event.Summary)
		if event.LocationName != nil {
			fmt.Fprintf(&b, " (%s)", *event.LocationName)
		}
		fmt.Fprintf(&b, " [קטגוריה: %s]", event.Category)
		lines = append(lines, b.String())
	}

	return fmt.Sprintf(`מקור: %s
טווח זמן: %d שעות אחרונות
מספר אירועים: %d

אירועים לסיכום:
%s

אנא צור סיכום יומי מקיף בעברית.`, sourceName, hours, len(events), strings.Join(lines, "\n"))
}

func emptyRecap(sourceName string, hours int) *Recap {
	return &Recap{
		SourceName:       sourceName,
		Hours:            hours,
		Title:            "לא נמצאו אירועים",
		ExecutiveSummary: fmt.Sprintf("לא נמצאו אירועים עבור %s ב-%d השעות האחרונות.", sourceName, hours),
		Sections:         []Section{},
		TimeRange:        fmt.Sprintf("%d שעות אחרונות", hours),
		GeneratedAt:      time.Now().UTC(),
	}
}

package tasks

import (
	"context"
	"log/slog"

	"geonews/app/scraper"
	"geonews/app/sources"
)

type ScrapeSourceTask struct {
	Task
	Source  sources.Source
	scraper *scraper.Scraper
}

func NewScrapeSourceTask(src sources.Source, s *scraper.Scraper) *ScrapeSourceTask {
	return &ScrapeSourceTask{
		Task:    NewTask(TaskTypeScrapeSource, src.Name),
		Source:  src,
		scraper: s,
	}
}

func (t *ScrapeSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	saved, err := t.scraper.ScrapeSource(ctx, t.Source)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "ScrapeSource",
		"source", t.Source.Name,
		"duration", t.GetDuration(),
		"saved", saved)

	return nil
}

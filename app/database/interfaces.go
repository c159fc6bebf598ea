package database

import (
	"context"
	"time"
)

type EventRepository interface {
	// InsertEvent stores the event unless an event with the same content
	// hash already exists. Returns true when a row was actually written.
	InsertEvent(ctx context.Context, event Event) (bool, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	CountEvents(ctx context.Context, filter EventFilter) (int, error)
	GetEventsBySource(ctx context.Context, sourceName string, since time.Time) ([]Event, error)
	GetActiveSources(ctx context.Context, since time.Time) ([]SourceActivity, error)
	GetStats(ctx context.Context) (*StoreStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type WatermarkRepository interface {
	// GetWatermark returns the source's last-run cursor, or nil if the
	// source has never been scraped.
	GetWatermark(ctx context.Context, sourceName string) (*time.Time, error)
	// AdvanceWatermark moves the cursor forward. A value older than the
	// stored one is ignored; the cursor never goes backwards.
	AdvanceWatermark(ctx context.Context, sourceName string, t time.Time) error
}

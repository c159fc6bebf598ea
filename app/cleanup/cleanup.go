package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"geonews/app/database"
	"geonews/app/metrics"
)

// Sweeper enforces the data retention policy by deleting events older than
// the configured horizon. Re-running when nothing qualifies is a no-op.
type Sweeper struct {
	events database.EventRepository
}

func NewSweeper(events database.EventRepository) *Sweeper {
	return &Sweeper{events: events}
}

// Run deletes every event detected before now minus retentionDays and
// returns the number of rows removed.
func (s *Sweeper) Run(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	deleted, err := s.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", err)
	}

	if deleted > 0 {
		slog.Info("Retention sweep deleted old events", "deleted", deleted, "retention_days", retentionDays)
		metrics.EventsDeleted.Add(float64(deleted))
	} else {
		slog.Debug("Retention sweep found nothing to delete", "retention_days", retentionDays)
	}

	return deleted, nil
}

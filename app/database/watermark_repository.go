package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ WatermarkRepository = (*watermarkRepository)(nil)

type watermarkRepository struct {
	db *DB
}

func NewWatermarkRepository(db *DB) WatermarkRepository {
	return &watermarkRepository{db: db}
}

func (r *watermarkRepository) GetWatermark(ctx context.Context, sourceName string) (*time.Time, error) {
	var lastRun sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT last_run FROM scrape_watermarks WHERE source_name = ?", sourceName).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watermark: %w", err)
	}

	if !lastRun.Valid {
		return nil, nil
	}

	t := lastRun.Time
	return &t, nil
}

// AdvanceWatermark upserts the cursor. The WHERE clause on the conflict
// update keeps last_run monotonically non-decreasing even if two sweeps
// race on the same source.
func (r *watermarkRepository) AdvanceWatermark(ctx context.Context, sourceName string, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scrape_watermarks (source_name, last_run)
		VALUES (?, ?)
		ON CONFLICT (source_name) DO UPDATE SET last_run = excluded.last_run
		WHERE scrape_watermarks.last_run IS NULL
		   OR excluded.last_run > scrape_watermarks.last_run
	`, sourceName, t)
	if err != nil {
		return fmt.Errorf("failed to advance watermark: %w", err)
	}

	return nil
}

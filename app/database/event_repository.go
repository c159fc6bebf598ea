package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var _ EventRepository = (*eventRepository)(nil)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = "id, source_name, COALESCE(original_url, ''), COALESCE(original_text, ''), " +
	"COALESCE(title, ''), summary, location_name, latitude, longitude, category, confidence, " +
	"detected_at, original_at, content_hash"

func (r *eventRepository) InsertEvent(ctx context.Context, event Event) (bool, error) {
	query, args, err := sq.Insert("news_events").
		Columns("source_name", "original_url", "original_text", "title", "summary",
			"location_name", "latitude", "longitude", "category", "confidence",
			"detected_at", "original_at", "content_hash").
		Values(event.SourceName, event.OriginalURL, event.OriginalText, event.Title,
			event.Summary, event.LocationName, event.Latitude, event.Longitude,
			event.Category, event.Confidence, event.DetectedAt, event.OriginalAt,
			event.ContentHash).
		Suffix("ON CONFLICT (content_hash) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *eventRepository) GetEvent(ctx context.Context, id int64) (*Event, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM news_events WHERE id = ?", id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) ListEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	builder := sq.Select(eventColumns).
		From("news_events").
		Where(sq.GtOrEq{"detected_at": filter.Since}).
		OrderBy("detected_at DESC")

	builder = applyFilter(builder, filter)

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) CountEvents(ctx context.Context, filter EventFilter) (int, error) {
	builder := sq.Select("COUNT(*)").
		From("news_events").
		Where(sq.GtOrEq{"detected_at": filter.Since})

	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}

func applyFilter(builder sq.SelectBuilder, filter EventFilter) sq.SelectBuilder {
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Source != "" {
		builder = builder.Where(sq.Like{"source_name": "%" + filter.Source + "%"})
	}
	return builder
}

func (r *eventRepository) GetEventsBySource(ctx context.Context, sourceName string, since time.Time) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM news_events WHERE source_name = ? AND detected_at >= ? ORDER BY detected_at DESC",
		sourceName, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by source: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) GetActiveSources(ctx context.Context, since time.Time) ([]SourceActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source_name, COUNT(*), MAX(detected_at)
		FROM news_events
		WHERE detected_at >= ?
		GROUP BY source_name
		ORDER BY source_name
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get active sources: %w", err)
	}
	defer rows.Close()

	var activity []SourceActivity
	for rows.Next() {
		var a SourceActivity
		if err := rows.Scan(&a.SourceName, &a.EventCount, &a.LatestEvent); err != nil {
			return nil, fmt.Errorf("failed to scan source activity: %w", err)
		}
		activity = append(activity, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return activity, nil
}

func (r *eventRepository) GetStats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{
		EventsByCategory: make(map[string]int),
		EventsBySource:   make(map[string]int),
	}

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news_events").Scan(&stats.TotalEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	dayAgo := time.Now().UTC().Add(-24 * time.Hour)
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news_events WHERE detected_at >= ?", dayAgo).Scan(&stats.EventsLast24h)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent events: %w", err)
	}

	if err := r.countBy(ctx, "category", stats.EventsByCategory); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "source_name", stats.EventsBySource); err != nil {
		return nil, err
	}

	var lastUpdate sql.NullTime
	err = r.db.QueryRowContext(ctx, "SELECT MAX(detected_at) FROM news_events").Scan(&lastUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get last update: %w", err)
	}
	if lastUpdate.Valid {
		stats.LastUpdate = &lastUpdate.Time
	}

	return stats, nil
}

func (r *eventRepository) countBy(ctx context.Context, column string, dest map[string]int) error {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s, COUNT(*) FROM news_events GROUP BY %s", column, column))
	if err != nil {
		return fmt.Errorf("failed to group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		dest[key] = count
	}

	return rows.Err()
}

func (r *eventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM news_events WHERE detected_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var event Event
	var locationName sql.NullString
	var latitude, longitude, confidence sql.NullFloat64
	var originalAt sql.NullTime

	err := row.Scan(
		&event.ID, &event.SourceName, &event.OriginalURL, &event.OriginalText,
		&event.Title, &event.Summary, &locationName, &latitude, &longitude,
		&event.Category, &confidence, &event.DetectedAt, &originalAt,
		&event.ContentHash,
	)
	if err != nil {
		return nil, err
	}

	if locationName.Valid {
		event.LocationName = &locationName.String
	}
	if latitude.Valid {
		event.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		event.Longitude = &longitude.Float64
	}
	if confidence.Valid {
		event.Confidence = &confidence.Float64
	}
	if originalAt.Valid {
		event.OriginalAt = &originalAt.Time
	}

	return &event, nil
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

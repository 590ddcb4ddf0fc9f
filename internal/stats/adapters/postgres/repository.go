package postgres

import (
	"context"
	"encoding/json"
	"time"

	"event-analytics-service/internal/events/core/domain"
	"event-analytics-service/internal/stats/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// EventReader exposes the events table to the query engine: range scans
// by timestamp, range counts, and a full scan for the referrer ranking.
type EventReader struct {
	db DB
}

func NewEventReader(db DB) *EventReader {
	return &EventReader{db: db}
}

var _ ports.EventReaderPort = (*EventReader)(nil)

const scanRangeSQL = `
SELECT id, account_id, event_type, payload
FROM events
WHERE event_time BETWEEN $1 AND $2
ORDER BY event_time`

const countRangeSQL = `
SELECT COUNT(*)
FROM events
WHERE event_time BETWEEN $1 AND $2`

const allEventsSQL = `
SELECT id, account_id, event_type, payload
FROM events
ORDER BY event_time`

func (r *EventReader) ScanRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, scanRangeSQL, from, to)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventReader) CountRange(ctx context.Context, from, to time.Time) (int64, error) {
	rows, err := r.db.QueryContext(ctx, countRangeSQL, from, to)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EventReader) All(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, allEventsSQL)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func collectEvents(rows RowScanner) ([]domain.Event, error) {
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			id, accountID, eventType string
			payloadJSON              []byte
		)
		if err := rows.Scan(&id, &accountID, &eventType, &payloadJSON); err != nil {
			return nil, err
		}

		payload := make(map[string]any)
		if err := json.Unmarshal(payloadJSON, &payload); err != nil {
			return nil, err
		}

		events = append(events, domain.Event{
			ID:        id,
			AccountID: accountID,
			Type:      eventType,
			Payload:   payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

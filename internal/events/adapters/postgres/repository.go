package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-analytics-service/internal/events/core/domain"
	"event-analytics-service/internal/events/core/ports"

	"github.com/lib/pq"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// SQL templates
const insertEventSQL = `
INSERT INTO events (
    id,
    account_id,
    event_type,
    event_time,
    payload
) VALUES (
    $1, $2, $3, $4, $5
)
ON CONFLICT (id) DO NOTHING;
`

const deleteByFieldSQL = `
DELETE FROM events
WHERE payload->>'%s' = ANY($1);
`

const deleteOlderThanSQL = `
DELETE FROM events
WHERE event_time < $1;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	eventTime, err := e.Timestamp()
	if err != nil {
		return false, err
	}

	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID,
		e.AccountID,
		e.Type,
		eventTime,
		payloadJSON,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

// allowed purge columns; the field name is interpolated into SQL, so it
// never comes from user input unchecked
var purgeFields = map[string]struct{}{
	"userId":    {},
	"sessionId": {},
}

func (r *EventRepository) DeleteByField(ctx context.Context, field string, values []string) (int64, error) {
	if _, ok := purgeFields[field]; !ok {
		return 0, fmt.Errorf("unsupported purge field %q", field)
	}

	query := fmt.Sprintf(deleteByFieldSQL, field)

	res, err := r.db.ExecContext(ctx, query, pq.Array(values))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *EventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteOlderThanSQL, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

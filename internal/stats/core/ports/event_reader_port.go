package ports

import (
	"context"
	"time"

	"event-analytics-service/internal/events/core/domain"
)

// EventReaderPort is the table abstraction the query engine runs
// against: an ordered, timestamp-indexed collection of decrypted
// events. Queries never mutate the table; callers needing point-in-time
// consistency across a concurrent purge snapshot it first.
type EventReaderPort interface {
	// ScanRange returns events with timestamp in [from, to], ordered
	// by timestamp.
	ScanRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)

	// CountRange counts events with timestamp in [from, to].
	CountRange(ctx context.Context, from, to time.Time) (int64, error)

	// All returns every stored event regardless of timestamp.
	All(ctx context.Context) ([]domain.Event, error)
}

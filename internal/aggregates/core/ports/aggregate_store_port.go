package ports

import (
	"context"
	"time"

	"event-analytics-service/internal/columnar"
	"event-analytics-service/internal/events/core/domain"
)

type AggregateStorePort interface {
	// Get returns the stored aggregate for an account, or (nil, nil)
	// when none has been written yet.
	Get(ctx context.Context, accountID string) (*columnar.Aggregate, error)

	// Save overwrites the account's aggregate.
	Save(ctx context.Context, accountID string, agg *columnar.Aggregate) error
}

// EventSourcePort feeds compaction with stored events. The stats
// feature's event reader satisfies it structurally.
type EventSourcePort interface {
	ScanRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

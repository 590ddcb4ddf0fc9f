package ports

import (
	"context"
	"time"

	"event-analytics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvent:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate (idempotent)
	//   created = false, err != nil -> DB error
	InsertEvent(ctx context.Context, e *domain.Event) (created bool, err error)

	// DeleteByField removes every event whose payload field matches one
	// of the given values. Used for user-initiated data purges.
	DeleteByField(ctx context.Context, field string, values []string) (int64, error)

	// DeleteOlderThan removes events whose timestamp predates the cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

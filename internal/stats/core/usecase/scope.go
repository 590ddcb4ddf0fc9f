package usecase

import (
	"context"
	"time"

	eventdomain "event-analytics-service/internal/events/core/domain"
	"event-analytics-service/internal/stats/core/ports"
)

// scope bounds every derived view to one inclusive time window over the
// event timestamp.
type scope struct {
	reader ports.EventReaderPort
	lower  time.Time
	upper  time.Time
}

func newScope(reader ports.EventReaderPort, lower, upper time.Time) (scope, error) {
	if lower.After(upper) {
		return scope{}, ErrInvalidTimeRange
	}
	return scope{reader: reader, lower: lower, upper: upper}, nil
}

func (s scope) items(ctx context.Context) ([]eventdomain.Event, error) {
	return s.reader.ScanRange(ctx, s.lower, s.upper)
}

// uniqueCount counts distinct values of a payload field among scoped
// events. Absent fields, stored nulls and empty strings are not values
// and never contribute a distinct entry.
func (s scope) uniqueCount(ctx context.Context, field string) (int, error) {
	events, err := s.items(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{})
	for i := range events {
		if v, ok := fieldValue(&events[i], field); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen), nil
}

// fieldValue reads a payload field, falling back to the event's account
// column for accountId since ingestion stores it both places.
func fieldValue(e *eventdomain.Event, field string) (string, bool) {
	if v, ok := e.StringField(field); ok {
		return v, true
	}
	if field == "accountId" && e.AccountID != "" {
		return e.AccountID, true
	}
	return "", false
}

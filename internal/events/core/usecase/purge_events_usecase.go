package usecase

import (
	"context"
	"errors"

	"event-analytics-service/internal/events/core/ports"
)

var (
	ErrInvalidPurgeField = errors.New("purge field must be userId or sessionId")
	ErrNoPurgeValues     = errors.New("no purge values given")
)

// PurgeEventsUseCase deletes the raw events tied to a user or session,
// e.g. when someone exercises their right to have their data removed.
// The columnar aggregates are shrunk separately by the aggregates
// feature; both run off the same field/value selection.
type PurgeEventsUseCase struct {
	repo ports.EventRepositoryPort
}

func NewPurgeEventsUseCase(repo ports.EventRepositoryPort) *PurgeEventsUseCase {
	return &PurgeEventsUseCase{repo: repo}
}

type PurgeEventsInput struct {
	Field  string // "userId" or "sessionId"
	Values []string
}

func (uc *PurgeEventsUseCase) Execute(ctx context.Context, in PurgeEventsInput) (int64, error) {
	if in.Field != "userId" && in.Field != "sessionId" {
		return 0, ErrInvalidPurgeField
	}
	if len(in.Values) == 0 {
		return 0, ErrNoPurgeValues
	}
	return uc.repo.DeleteByField(ctx, in.Field, in.Values)
}

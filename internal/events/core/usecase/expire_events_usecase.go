package usecase

import (
	"context"
	"errors"
	"time"

	"event-analytics-service/internal/events/core/ports"
)

var ErrInvalidRetention = errors.New("retention period must be positive")

// ExpireEventsUseCase drops events older than the configured retention
// period. Run periodically so stored data never outlives its reporting
// usefulness.
type ExpireEventsUseCase struct {
	repo      ports.EventRepositoryPort
	retention time.Duration
	now       func() time.Time
}

func NewExpireEventsUseCase(repo ports.EventRepositoryPort, retention time.Duration) *ExpireEventsUseCase {
	return &ExpireEventsUseCase{repo: repo, retention: retention, now: time.Now}
}

func (uc *ExpireEventsUseCase) Execute(ctx context.Context) (int64, error) {
	if uc.retention <= 0 {
		return 0, ErrInvalidRetention
	}
	cutoff := uc.now().Add(-uc.retention)
	return uc.repo.DeleteOlderThan(ctx, cutoff)
}

package usecase

import (
	"context"
	"errors"

	"event-analytics-service/internal/events/core/domain"
	"event-analytics-service/internal/events/core/ports"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrEmptyBatch = errors.New("no events in batch")

type IngestEventsUseCase struct {
	repo   ports.EventRepositoryPort
	logger logrus.FieldLogger
}

func NewIngestEventsUseCase(repo ports.EventRepositoryPort, logger logrus.FieldLogger) *IngestEventsUseCase {
	return &IngestEventsUseCase{repo: repo, logger: logger}
}

type EventInput struct {
	ID        string // optional client-side event id, used for idempotency
	AccountID string
	Type      string
	Payload   map[string]any
}

type IngestEventsInput struct {
	Events []EventInput
}

type IngestEventsResult struct {
	Stored     int
	Duplicates int
	Skipped    int
}

// Execute stores the valid events of a batch. Malformed events (unknown
// type, unparseable timestamp, broken URLs, missing account) are dropped
// silently and only counted; they never reach storage or surface as an
// error. Storage failures abort the batch.
func (uc *IngestEventsUseCase) Execute(ctx context.Context, in IngestEventsInput) (IngestEventsResult, error) {
	var res IngestEventsResult

	if len(in.Events) == 0 {
		return res, ErrEmptyBatch
	}

	for _, raw := range in.Events {
		e := &domain.Event{
			ID:        raw.ID,
			AccountID: raw.AccountID,
			Type:      raw.Type,
			Payload:   raw.Payload,
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}

		if err := uc.validate(e); err != nil {
			uc.logDrop(e, err)
			res.Skipped++
			continue
		}

		created, err := uc.repo.InsertEvent(ctx, e)
		if err != nil {
			return res, err
		}

		if created {
			res.Stored++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *IngestEventsUseCase) validate(e *domain.Event) error {
	if e.AccountID == "" {
		return domain.ErrMissingAccount
	}
	return e.Validate()
}

func (uc *IngestEventsUseCase) logDrop(e *domain.Event, err error) {
	if uc.logger == nil {
		return
	}
	uc.logger.WithError(err).WithField("type", e.Type).Debug("dropping malformed event")
}

package fiber

import (
	"context"
	"errors"
	"net/http"

	aggregates "event-analytics-service/internal/aggregates/core/usecase"
	"event-analytics-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type IngestEventsUseCase interface {
	Execute(ctx context.Context, in usecase.IngestEventsInput) (usecase.IngestEventsResult, error)
}

type PurgeEventsUseCase interface {
	Execute(ctx context.Context, in usecase.PurgeEventsInput) (int64, error)
}

type PurgeAggregateUseCase interface {
	Execute(ctx context.Context, accountID, key string, values []string) (int, error)
}

type EventHandler struct {
	ingestUC   IngestEventsUseCase
	purgeUC    PurgeEventsUseCase
	purgeAggUC PurgeAggregateUseCase
	logger     logrus.FieldLogger
}

func NewEventHandler(ingestUC IngestEventsUseCase, purgeUC PurgeEventsUseCase, purgeAggUC PurgeAggregateUseCase, logger logrus.FieldLogger) *EventHandler {
	return &EventHandler{
		ingestUC:   ingestUC,
		purgeUC:    purgeUC,
		purgeAggUC: purgeAggUC,
		logger:     logger,
	}
}

func (h *EventHandler) logError(err error, message string) {
	if h.logger != nil {
		h.logger.WithError(err).Error(message)
	}
}

// CreateEvent godoc
// @Summary Record a single event
// @Description Stores one event; resubmitting the same eventId is a no-op
// @Tags Events
// @Accept json
// @Produce json
// @Param request body EventRequest true "Event payload"
// @Success 201 {object} CreateEventResponse
// @Success 200 {object} CreateEventResponse "Duplicate event"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	result, err := h.ingestUC.Execute(c.UserContext(), usecase.IngestEventsInput{
		Events: []usecase.EventInput{{
			ID:        req.EventID,
			AccountID: req.AccountID,
			Type:      req.Type,
			Payload:   req.Payload,
		}},
	})
	if err != nil {
		h.logError(err, "event ingestion failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	switch {
	case result.Stored == 1:
		return c.Status(http.StatusCreated).JSON(CreateEventResponse{Status: "created"})
	case result.Duplicates == 1:
		return c.Status(http.StatusOK).JSON(CreateEventResponse{Status: "duplicate"})
	default:
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_event",
			Message: "event failed validation",
		})
	}
}

// IngestEvents godoc
// @Summary Ingest a batch of events
// @Description Stores the valid events of a batch; malformed ones are counted and dropped
// @Tags Events
// @Accept json
// @Produce json
// @Param request body IngestEventsRequest true "Batch payload"
// @Success 201 {object} IngestEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) IngestEvents(c *fiber.Ctx) error {
	var req IngestEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	inputs := make([]usecase.EventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = usecase.EventInput{
			ID:        e.EventID,
			AccountID: e.AccountID,
			Type:      e.Type,
			Payload:   e.Payload,
		}
	}

	result, err := h.ingestUC.Execute(c.UserContext(), usecase.IngestEventsInput{Events: inputs})
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyBatch) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "events_list_required",
				Message: err.Error(),
			})
		}
		h.logError(err, "batch ingestion failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusCreated).JSON(IngestEventsResponse{
		Stored:     result.Stored,
		Duplicates: result.Duplicates,
		Skipped:    result.Skipped,
	})
}

// PurgeEvents godoc
// @Summary Purge stored data for users or sessions
// @Description Deletes matching raw events and shrinks the account's aggregate
// @Tags Events
// @Accept json
// @Produce json
// @Param request body PurgeRequest true "Purge selection"
// @Success 200 {object} PurgeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [delete]
func (h *EventHandler) PurgeEvents(c *fiber.Ctx) error {
	var req PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	if req.AccountID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_purge",
			Message: "accountId is required",
		})
	}

	eventsRemoved, err := h.purgeUC.Execute(c.UserContext(), usecase.PurgeEventsInput{
		Field:  req.Field,
		Values: req.Values,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPurgeField),
			errors.Is(err, usecase.ErrNoPurgeValues):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_purge",
				Message: err.Error(),
			})
		default:
			h.logError(err, "event purge failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	rowsRemoved, err := h.purgeAggUC.Execute(c.UserContext(), req.AccountID, req.Field, req.Values)
	if err != nil {
		switch {
		case errors.Is(err, aggregates.ErrInvalidPurgeKey),
			errors.Is(err, aggregates.ErrNoPurgeValues):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_purge",
				Message: err.Error(),
			})
		default:
			h.logError(err, "aggregate purge failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(PurgeResponse{
		EventsRemoved:        eventsRemoved,
		AggregateRowsRemoved: rowsRemoved,
	})
}

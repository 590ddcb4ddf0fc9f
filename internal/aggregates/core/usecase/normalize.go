package usecase

import (
	"event-analytics-service/internal/columnar"
	"event-analytics-service/internal/events/core/domain"
)

// rowForEvent shapes an event the way it travels on the wire: the
// discriminator and id at the top, everything else nested in payload.
// The codec hooks below flatten that for columnar storage and undo it
// on export.
func rowForEvent(e *domain.Event) columnar.Row {
	return columnar.Row{
		"eventId": e.ID,
		"type":    e.Type,
		"payload": e.Payload,
	}
}

func normalizeEventRow(r columnar.Row) columnar.Row {
	out := make(columnar.Row, len(r))
	for k, v := range r {
		if k != "payload" {
			out[k] = v
			continue
		}
		if payload, ok := v.(map[string]any); ok {
			for pk, pv := range payload {
				out[pk] = pv
			}
		}
	}
	return out
}

func denormalizeEventRow(r columnar.Row) columnar.Row {
	payload := make(map[string]any)
	out := columnar.Row{"payload": payload}
	for k, v := range r {
		switch k {
		case "eventId", "type":
			out[k] = v
		default:
			payload[k] = v
		}
	}
	return out
}

package fiber

// EventRequest is one event as submitted by a client script.
// @Description Event ingestion DTO
type EventRequest struct {
	EventID   string         `json:"eventId,omitempty"`
	AccountID string         `json:"accountId"`
	Type      string         `json:"type" example:"pageview"`
	Payload   map[string]any `json:"payload"`
}

type CreateEventResponse struct {
	Status string `json:"status" example:"created"`
}

type IngestEventsRequest struct {
	Events []EventRequest `json:"events"`
}

type IngestEventsResponse struct {
	Stored     int `json:"stored"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// PurgeRequest selects rows to delete across the raw events table and
// the account's columnar aggregate.
type PurgeRequest struct {
	AccountID string   `json:"accountId"`
	Field     string   `json:"field" example:"userId"`
	Values    []string `json:"values"`
}

type PurgeResponse struct {
	EventsRemoved        int64 `json:"eventsRemoved"`
	AggregateRowsRemoved int   `json:"aggregateRowsRemoved"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message,omitempty" example:"event payload is invalid"`
}

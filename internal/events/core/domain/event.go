package domain

import (
	"errors"
	"net/url"
	"time"
)

// Event is one decrypted analytics event. The payload is schemaless
// beyond a parseable timestamp; domain fields like userId, sessionId,
// href and referrer appear as the client supplied them. Events are
// immutable once stored except for full deletion.
type Event struct {
	ID        string
	AccountID string
	Type      string
	Payload   map[string]any
}

var (
	ErrMissingAccount = errors.New("event has no account id")
	ErrUnknownType    = errors.New("unknown event type")
	ErrBadTimestamp   = errors.New("timestamp is not a valid ISO-8601 string")
	ErrBadURL         = errors.New("href or referrer is not an absolute URL")
)

var knownTypes = map[string]struct{}{
	"pageview":  {},
	"pageleave": {},
}

// Timestamp parses the payload timestamp. Validated events always carry
// one, so an error here means the event bypassed ingestion.
func (e *Event) Timestamp() (time.Time, error) {
	raw, ok := e.Payload["timestamp"].(string)
	if !ok {
		return time.Time{}, ErrBadTimestamp
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrBadTimestamp
	}
	return ts, nil
}

// StringField returns the named payload field when it is a non-empty
// string. Absent fields, stored nulls and empty strings all report false.
func (e *Event) StringField(name string) (string, bool) {
	s, ok := e.Payload[name].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Validate checks the assumptions the query engine relies on: a known
// type, a parseable timestamp, and absolute URLs in href and referrer
// when those fields are set. Ingestion drops events failing this.
func (e *Event) Validate() error {
	if _, ok := knownTypes[e.Type]; !ok {
		return ErrUnknownType
	}
	if _, err := e.Timestamp(); err != nil {
		return err
	}
	for _, field := range []string{"href", "referrer"} {
		raw, ok := e.StringField(field)
		if !ok {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return ErrBadURL
		}
	}
	return nil
}

// Package memory provides an in-process event table. It backs tests and
// any deployment that treats the key-value layer as a collaborator to be
// swapped in later; the query engine only ever sees the port interfaces.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-analytics-service/internal/events/core/domain"
)

type Table struct {
	mu     sync.RWMutex
	events []domain.Event
	ids    map[string]struct{}
}

func NewTable() *Table {
	return &Table{ids: make(map[string]struct{})}
}

func (t *Table) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.ids[e.ID]; ok {
		return false, nil
	}
	t.ids[e.ID] = struct{}{}
	t.events = append(t.events, *e)
	return true, nil
}

func (t *Table) DeleteByField(ctx context.Context, field string, values []string) (int64, error) {
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		drop[v] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.events[:0]
	var removed int64
	for _, e := range t.events {
		if v, ok := e.StringField(field); ok {
			if _, hit := drop[v]; hit {
				delete(t.ids, e.ID)
				removed++
				continue
			}
		}
		kept = append(kept, e)
	}
	t.events = kept
	return removed, nil
}

func (t *Table) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.events[:0]
	var removed int64
	for _, e := range t.events {
		ts, err := e.Timestamp()
		if err == nil && ts.Before(cutoff) {
			delete(t.ids, e.ID)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	t.events = kept
	return removed, nil
}

// ScanRange returns events whose timestamp falls within [from, to],
// ordered by timestamp. Events with an unparseable timestamp are
// skipped rather than breaking the scan.
func (t *Table) ScanRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	type scanned struct {
		event domain.Event
		ts    time.Time
	}
	var hits []scanned
	for _, e := range t.events {
		ts, err := e.Timestamp()
		if err != nil {
			continue
		}
		if ts.Before(from) || ts.After(to) {
			continue
		}
		hits = append(hits, scanned{event: e, ts: ts})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ts.Before(hits[j].ts) })

	out := make([]domain.Event, len(hits))
	for i, h := range hits {
		out[i] = h.event
	}
	return out, nil
}

func (t *Table) CountRange(ctx context.Context, from, to time.Time) (int64, error) {
	events, err := t.ScanRange(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (t *Table) All(ctx context.Context) ([]domain.Event, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Event, len(t.events))
	copy(out, t.events)
	return out, nil
}

// Len reports the number of stored events.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}

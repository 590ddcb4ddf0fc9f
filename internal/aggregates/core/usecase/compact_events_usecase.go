package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"event-analytics-service/internal/aggregates/core/ports"
	"event-analytics-service/internal/columnar"

	"github.com/sirupsen/logrus"
)

// CompactEventsUseCase folds stored events into per-account columnar
// aggregates. Events already present in an aggregate are appended
// again if the same range is compacted twice, so callers advance the
// range between runs.
type CompactEventsUseCase struct {
	source ports.EventSourcePort
	store  ports.AggregateStorePort
	logger logrus.FieldLogger
}

func NewCompactEventsUseCase(source ports.EventSourcePort, store ports.AggregateStorePort, logger logrus.FieldLogger) *CompactEventsUseCase {
	return &CompactEventsUseCase{source: source, store: store, logger: logger}
}

type CompactResult struct {
	Accounts int
	Events   int
}

func (uc *CompactEventsUseCase) Execute(ctx context.Context, from, to time.Time) (CompactResult, error) {
	events, err := uc.source.ScanRange(ctx, from, to)
	if err != nil {
		return CompactResult{}, fmt.Errorf("compact: scanning events: %w", err)
	}

	byAccount := make(map[string][]columnar.Row)
	for i := range events {
		e := events[i]
		byAccount[e.AccountID] = append(byAccount[e.AccountID], rowForEvent(&e))
	}

	accounts := make([]string, 0, len(byAccount))
	for accountID := range byAccount {
		accounts = append(accounts, accountID)
	}
	sort.Strings(accounts)

	result := CompactResult{}
	for _, accountID := range accounts {
		rows := byAccount[accountID]

		existing, err := uc.store.Get(ctx, accountID)
		if err != nil {
			return CompactResult{}, fmt.Errorf("compact: loading aggregate for %s: %w", accountID, err)
		}

		merged := columnar.Merge([]*columnar.Aggregate{
			existing,
			columnar.Encode(rows, normalizeEventRow),
		})
		if err := uc.store.Save(ctx, accountID, merged); err != nil {
			return CompactResult{}, fmt.Errorf("compact: saving aggregate for %s: %w", accountID, err)
		}

		result.Accounts++
		result.Events += len(rows)

		if uc.logger != nil {
			uc.logger.WithFields(logrus.Fields{
				"accountId": accountID,
				"events":    len(rows),
				"total":     merged.Len(),
			}).Debug("compacted events into aggregate")
		}
	}

	return result, nil
}

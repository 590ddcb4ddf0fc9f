package usecase

import (
	"context"
	"errors"
	"fmt"

	"event-analytics-service/internal/aggregates/core/ports"
)

var (
	ErrInvalidPurgeKey = errors.New("purge key must be userId or sessionId")
	ErrNoPurgeValues   = errors.New("no values given to purge")
)

var purgeKeys = map[string]struct{}{
	"userId":    {},
	"sessionId": {},
}

// PurgeAggregateUseCase drops all rows matching the given identifier
// values from an account's aggregate. Accounts without an aggregate,
// or whose aggregate never stored the key, have nothing to purge.
type PurgeAggregateUseCase struct {
	store ports.AggregateStorePort
}

func NewPurgeAggregateUseCase(store ports.AggregateStorePort) *PurgeAggregateUseCase {
	return &PurgeAggregateUseCase{store: store}
}

func (uc *PurgeAggregateUseCase) Execute(ctx context.Context, accountID, key string, values []string) (int, error) {
	if _, ok := purgeKeys[key]; !ok {
		return 0, ErrInvalidPurgeKey
	}
	if len(values) == 0 {
		return 0, ErrNoPurgeValues
	}

	agg, err := uc.store.Get(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("purge: loading aggregate for %s: %w", accountID, err)
	}
	if agg == nil {
		return 0, nil
	}
	if _, ok := agg.Column(key); !ok {
		return 0, nil
	}

	drop := make([]any, len(values))
	for i, v := range values {
		drop[i] = v
	}

	pruned, err := agg.RemoveByKey(key, drop)
	if err != nil {
		return 0, fmt.Errorf("purge: pruning aggregate for %s: %w", accountID, err)
	}

	removed := agg.Len() - pruned.Len()
	if removed == 0 {
		return 0, nil
	}

	if err := uc.store.Save(ctx, accountID, pruned); err != nil {
		return 0, fmt.Errorf("purge: saving aggregate for %s: %w", accountID, err)
	}
	return removed, nil
}

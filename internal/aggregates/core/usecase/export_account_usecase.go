package usecase

import (
	"context"
	"errors"
	"fmt"

	"event-analytics-service/internal/aggregates/core/ports"
	"event-analytics-service/internal/columnar"
)

var ErrNoAggregate = errors.New("no aggregate stored for account")

// ExportAccountUseCase inflates an account's aggregate back into the
// event rows it was built from.
type ExportAccountUseCase struct {
	store ports.AggregateStorePort
}

func NewExportAccountUseCase(store ports.AggregateStorePort) *ExportAccountUseCase {
	return &ExportAccountUseCase{store: store}
}

func (uc *ExportAccountUseCase) Execute(ctx context.Context, accountID string) ([]columnar.Row, error) {
	agg, err := uc.store.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("export: loading aggregate for %s: %w", accountID, err)
	}
	if agg == nil {
		return nil, ErrNoAggregate
	}

	rows, err := agg.Inflate(denormalizeEventRow)
	if err != nil {
		return nil, fmt.Errorf("export: inflating aggregate for %s: %w", accountID, err)
	}
	return rows, nil
}

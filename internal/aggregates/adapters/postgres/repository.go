package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"event-analytics-service/internal/aggregates/core/ports"
	"event-analytics-service/internal/columnar"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AggregateRepository stores one columnar aggregate per account, as a
// JSONB document keyed by account id.
type AggregateRepository struct {
	db DB
}

func NewAggregateRepository(db DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

var _ ports.AggregateStorePort = (*AggregateRepository)(nil)

const getAggregateSQL = `
SELECT payload
FROM aggregates
WHERE account_id = $1`

const saveAggregateSQL = `
INSERT INTO aggregates (account_id, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (account_id)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`

func (r *AggregateRepository) Get(ctx context.Context, accountID string) (*columnar.Aggregate, error) {
	rows, err := r.db.QueryContext(ctx, getAggregateSQL, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var payload []byte
	if err := rows.Scan(&payload); err != nil {
		return nil, err
	}

	var agg columnar.Aggregate
	if err := json.Unmarshal(payload, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *AggregateRepository) Save(ctx context.Context, accountID string, agg *columnar.Aggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, saveAggregateSQL, accountID, payload)
	return err
}

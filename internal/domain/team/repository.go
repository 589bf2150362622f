package team

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
	// BulkUpsert inserts or updates every team keyed by ExternalRef in one batch.
	BulkUpsert(ctx context.Context, items []Team) ([]upsert.Row, error)
}

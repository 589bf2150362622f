package match

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Match, error)
	BulkUpsert(ctx context.Context, items []Match) ([]upsert.Row, error)
}

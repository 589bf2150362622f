package player

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	BulkUpsert(ctx context.Context, items []Player) ([]upsert.Row, error)
}

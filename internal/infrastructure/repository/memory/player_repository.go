package memory

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

type PlayerRepository struct {
	table *refTable[player.Player]
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{table: newRefTable(
		func(p player.Player) string { return p.ExternalRef },
		func(p player.Player) int64 { return p.ID },
		func(p *player.Player, id int64) { p.ID = id },
	)}
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	return r.table.filter(func(p player.Player) bool { return p.TeamID == teamID }), nil
}

func (r *PlayerRepository) BulkUpsert(_ context.Context, items []player.Player) ([]upsert.Row, error) {
	return r.table.upsert(items, player.Player.Validate)
}

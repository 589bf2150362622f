package memory

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/team"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

type TeamRepository struct {
	table *refTable[team.Team]
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{table: newRefTable(
		func(t team.Team) string { return t.ExternalRef },
		func(t team.Team) int64 { return t.ID },
		func(t *team.Team, id int64) { t.ID = id },
	)}
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	return r.table.filter(func(t team.Team) bool { return t.LeagueID == leagueID }), nil
}

func (r *TeamRepository) BulkUpsert(_ context.Context, items []team.Team) ([]upsert.Row, error) {
	return r.table.upsert(items, team.Team.Validate)
}

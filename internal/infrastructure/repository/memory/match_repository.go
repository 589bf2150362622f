package memory

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

type MatchRepository struct {
	table *refTable[match.Match]
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{table: newRefTable(
		func(m match.Match) string { return m.ExternalRef },
		func(m match.Match) int64 { return m.ID },
		func(m *match.Match, id int64) { m.ID = id },
	)}
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID int64) ([]match.Match, error) {
	return r.table.filter(func(m match.Match) bool { return m.LeagueID == leagueID }), nil
}

func (r *MatchRepository) BulkUpsert(_ context.Context, items []match.Match) ([]upsert.Row, error) {
	normalized := make([]match.Match, 0, len(items))
	for _, item := range items {
		item.Status = match.NormalizeStatus(item.Status)
		normalized = append(normalized, item)
	}
	return r.table.upsert(normalized, match.Match.Validate)
}

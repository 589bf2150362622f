package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("match_date", "match_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by league query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by league: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:          row.ID,
			LeagueID:    row.LeagueID,
			HomeTeamID:  row.HomeTeamID,
			AwayTeamID:  row.AwayTeamID,
			ExternalRef: row.ExternalRef,
			MatchDate:   row.MatchDate,
			MatchTime:   row.MatchTime,
			HomeScore:   row.HomeScore,
			AwayScore:   row.AwayScore,
			Status:      row.Status,
			Venue:       row.Venue,
			Round:       row.Round,
		})
	}

	return out, nil
}

func (r *MatchRepository) BulkUpsert(ctx context.Context, items []match.Match) ([]upsert.Row, error) {
	rows := make([]matchUpsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, matchUpsertModel{
			ExternalRef: item.ExternalRef,
			LeagueID:    item.LeagueID,
			HomeTeamID:  item.HomeTeamID,
			AwayTeamID:  item.AwayTeamID,
			MatchDate:   item.MatchDate,
			MatchTime:   item.MatchTime,
			HomeScore:   item.HomeScore,
			AwayScore:   item.AwayScore,
			Status:      match.NormalizeStatus(item.Status),
			Venue:       item.Venue,
			Round:       item.Round,
		})
	}

	return bulkUpsert(ctx, r.db, upsertTarget{table: "matches", updateColumns: matchUpdateColumns}, rows)
}

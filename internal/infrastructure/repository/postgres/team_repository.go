package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/domain/team"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:              row.ID,
			LeagueID:        row.LeagueID,
			ExternalRef:     row.ExternalRef,
			Name:            row.Name,
			Country:         row.Country,
			LogoURL:         row.LogoURL,
			Founded:         row.Founded,
			StadiumName:     row.StadiumName,
			StadiumAddress:  row.StadiumAddress,
			StadiumCity:     row.StadiumCity,
			StadiumCapacity: row.StadiumCapacity,
			Coach:           row.Coach,
			LastSyncedAt:    row.LastSyncedAt,
		})
	}

	return out, nil
}

func (r *TeamRepository) BulkUpsert(ctx context.Context, items []team.Team) ([]upsert.Row, error) {
	rows := make([]teamUpsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, teamUpsertModel{
			ExternalRef:     item.ExternalRef,
			LeagueID:        item.LeagueID,
			Name:            item.Name,
			Country:         item.Country,
			LogoURL:         item.LogoURL,
			Founded:         item.Founded,
			StadiumName:     item.StadiumName,
			StadiumAddress:  item.StadiumAddress,
			StadiumCity:     item.StadiumCity,
			StadiumCapacity: item.StadiumCapacity,
			Coach:           item.Coach,
			LastSyncedAt:    item.LastSyncedAt,
		})
	}

	return bulkUpsert(ctx, r.db, upsertTarget{table: "teams", updateColumns: teamUpdateColumns}, rows)
}

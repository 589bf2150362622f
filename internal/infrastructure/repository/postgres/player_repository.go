package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:              row.ID,
			TeamID:          row.TeamID,
			ExternalRef:     row.ExternalRef,
			FullName:        row.FullName,
			PrimaryPosition: row.PrimaryPosition,
			Age:             row.Age,
			ShirtNumber:     row.ShirtNumber,
			ThumbURL:        row.ThumbURL,
			Country:         row.Country,
		})
	}

	return out, nil
}

func (r *PlayerRepository) BulkUpsert(ctx context.Context, items []player.Player) ([]upsert.Row, error) {
	rows := make([]playerUpsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, playerUpsertModel{
			ExternalRef:     item.ExternalRef,
			TeamID:          item.TeamID,
			FullName:        item.FullName,
			PrimaryPosition: item.PrimaryPosition,
			Age:             item.Age,
			ShirtNumber:     item.ShirtNumber,
			ThumbURL:        item.ThumbURL,
			Country:         item.Country,
		})
	}

	return bulkUpsert(ctx, r.db, upsertTarget{table: "players", updateColumns: playerUpdateColumns}, rows)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/domain/league"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
	"github.com/riskibarqy/football-api/internal/usecase"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *LeagueRepository) FindByNameCountry(ctx context.Context, name, country string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.EqFold("name", name),
			qb.EqFold("country", country),
		).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build find league by name query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	insertModel := leagueInsertModel{
		ExternalRef: item.ExternalRef,
		Name:        item.Name,
		Country:     item.Country,
		LogoURL:     item.LogoURL,
		Season:      item.Season,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "RETURNING *")
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return league.League{}, fmt.Errorf("%w: league %q (%s)", usecase.ErrConflict, item.Name, item.Country)
		}
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LeagueRepository) getOne(ctx context.Context, query string, args []any) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}
	return row.toDomain(), true, nil
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:          m.ID,
		ExternalRef: m.ExternalRef,
		Name:        m.Name,
		Country:     m.Country,
		LogoURL:     m.LogoURL,
		Season:      m.Season,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, run syncrun.Run) error {
	insertModel := syncRunInsertModel{
		ID:        run.ID,
		Kind:      string(run.Kind),
		LeagueID:  run.LeagueID,
		Trigger:   run.Trigger,
		Status:    string(run.Status),
		TraceID:   optionalString(run.TraceID),
		StartedAt: run.StartedAt,
	}
	query, args, err := qb.InsertModel("sync_runs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) Finish(ctx context.Context, run syncrun.Run) error {
	builder := qb.Update("sync_runs").
		Set("status", string(run.Status)).
		Set("error", optionalString(run.Error)).
		Set("finished_at", run.FinishedAt)
	// lib/pq sends []byte as bytea, so the payload travels as text and is cast.
	if len(run.Result) > 0 {
		builder.SetExpr("result", "?::jsonb", string(run.Result))
	}
	query, args, err := builder.
		Where(qb.Eq("id", run.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finish sync run query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish sync run %s: no row updated", run.ID)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(qb.Eq("id", runID)).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build get sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("get sync run: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, leagueID *int64, limit int) ([]syncrun.Run, error) {
	builder := qb.Select("*").From("sync_runs")
	if leagueID != nil {
		builder.Where(qb.Eq("league_id", *leagueID))
	}
	query, args, err := builder.
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m syncRunTableModel) toDomain() syncrun.Run {
	return syncrun.Run{
		ID:         m.ID,
		Kind:       syncrun.Kind(m.Kind),
		LeagueID:   nullInt64ToInt64Ptr(m.LeagueID),
		Trigger:    m.Trigger,
		Status:     syncrun.Status(m.Status),
		Result:     m.Result,
		Error:      m.Error.String,
		TraceID:    m.TraceID.String,
		StartedAt:  m.StartedAt,
		FinishedAt: nullTimeToTimePtr(m.FinishedAt),
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

package postgres

import (
	"database/sql"
	"time"
)

type syncRunTableModel struct {
	ID         string         `db:"id"`
	Kind       string         `db:"kind"`
	LeagueID   sql.NullInt64  `db:"league_id"`
	Trigger    string         `db:"triggered_by"`
	Status     string         `db:"status"`
	Result     []byte         `db:"result"`
	Error      sql.NullString `db:"error"`
	TraceID    sql.NullString `db:"trace_id"`
	StartedAt  time.Time      `db:"started_at"`
	FinishedAt sql.NullTime   `db:"finished_at"`
}

type syncRunInsertModel struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	LeagueID  *int64    `db:"league_id"`
	Trigger   string    `db:"triggered_by"`
	Status    string    `db:"status"`
	TraceID   *string   `db:"trace_id"`
	StartedAt time.Time `db:"started_at"`
}

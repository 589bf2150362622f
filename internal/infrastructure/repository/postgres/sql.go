package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

const (
	// PostgreSQL caps bind parameters per statement at 65535.
	maxBindParams = 65535

	uniqueViolationCode = "23505"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

func nullTimeToTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

func nullInt64ToInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

type upsertResultModel struct {
	ID          int64  `db:"id"`
	ExternalRef string `db:"external_ref"`
	Inserted    bool   `db:"inserted"`
}

type upsertTarget struct {
	table         string
	updateColumns []string
}

// bulkUpsert writes rows keyed by external_ref inside one transaction and
// reports for each row whether it was inserted (xmax = 0) or updated.
// Batches larger than the bind parameter limit are split into chunks.
func bulkUpsert[T any](ctx context.Context, db *sqlx.DB, target upsertTarget, rows []T) ([]upsert.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := qb.ModelColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("resolve %s columns: %w", target.table, err)
	}
	chunkSize := maxBindParams / len(cols)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx upsert %s: %w", target.table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]upsert.Row, 0, len(rows))
	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))

		builder, err := qb.InsertRows(target.table, rows[start:end])
		if err != nil {
			return nil, fmt.Errorf("build upsert %s rows: %w", target.table, err)
		}
		query, args, err := builder.
			OnConflict("external_ref").
			DoUpdateSet(target.updateColumns...).
			DoUpdateSetExpr("updated_at", "NOW()").
			Returning("id", "external_ref", "(xmax = 0) AS inserted").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build upsert %s query: %w", target.table, err)
		}

		var result []upsertResultModel
		if err := tx.SelectContext(ctx, &result, query, args...); err != nil {
			return nil, fmt.Errorf("upsert %s rows %d-%d: %w", target.table, start, end, err)
		}
		for _, row := range result {
			out = append(out, upsert.Row{ID: row.ID, ExternalRef: row.ExternalRef, Inserted: row.Inserted})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert %s tx: %w", target.table, err)
	}
	return out, nil
}

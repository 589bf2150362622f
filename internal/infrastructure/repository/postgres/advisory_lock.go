package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-api/internal/platform/logging"
)

// AdvisoryLocker serializes syncs across processes with session-level
// Postgres advisory locks. Each held lock pins one pooled connection.
type AdvisoryLocker struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewAdvisoryLocker(db *sqlx.DB, logger *logging.Logger) *AdvisoryLocker {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdvisoryLocker{db: db, logger: logger.Named("advisory_lock")}
}

// Lock blocks until the key is held or ctx ends.
func (l *AdvisoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock(hashtextextended($1, 0))", key); err != nil {
		// A cancelled wait may still have taken the lock server side.
		discardConn(conn)
		return nil, fmt.Errorf("acquire advisory lock %q: %w", key, err)
	}

	return func() {
		unlockCtx := context.WithoutCancel(ctx)
		if _, err := conn.ExecContext(unlockCtx, "SELECT pg_advisory_unlock(hashtextextended($1, 0))", key); err != nil {
			l.logger.WarnContext(unlockCtx, "release advisory lock failed, dropping session", "key", key, "error", err)
			discardConn(conn)
			return
		}
		_ = conn.Close()
	}, nil
}

// discardConn closes the session instead of returning it to the pool, which
// releases any advisory lock it still holds.
func discardConn(conn *sqlx.Conn) {
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()
}

package usecase

import (
	"context"

	"github.com/riskibarqy/football-api/internal/domain/upsert"
	"go.opentelemetry.io/otel/attribute"
)

const bulkFailurePrefix = "Bulk operation failed: "

// ReconcileResult is the outcome of one bulk upsert batch.
type ReconcileResult struct {
	Created int
	Updated int
	Errors  []string
	Rows    []upsert.Row
}

type bulkUpsertFunc[T any] func(ctx context.Context, items []T) ([]upsert.Row, error)

// reconcile runs a single bulk upsert for records and classifies every
// returned row. A failed batch is reported in Errors with zero counts and
// never aborts the caller.
func reconcile[T any](ctx context.Context, s *SyncService, entity string, records []T, bulkUpsert bulkUpsertFunc[T]) ReconcileResult {
	if len(records) == 0 {
		return ReconcileResult{}
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.reconcile."+entity,
		attribute.String("football.entity", entity),
		attribute.Int("football.records", len(records)),
	)
	defer span.End()

	rows, err := bulkUpsert(ctx, records)
	if err != nil {
		s.logger.WarnContext(ctx, "bulk upsert failed",
			"entity", entity,
			"records", len(records),
			"error", err,
		)
		s.observer.ObserveRecords(entity, 0, 0, len(records))
		return ReconcileResult{Errors: []string{bulkFailurePrefix + err.Error()}}
	}

	created, updated := upsert.Count(rows)
	s.observer.ObserveRecords(entity, created, updated, 0)
	s.logger.DebugContext(ctx, "bulk upsert done",
		"entity", entity,
		"records", len(records),
		"created", created,
		"updated", updated,
	)

	return ReconcileResult{
		Created: created,
		Updated: updated,
		Rows:    rows,
	}
}

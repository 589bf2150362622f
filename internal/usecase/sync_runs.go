package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/platform/id"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSyncRunListLimit = 20
	maxSyncRunListLimit     = 100

	SyncTriggerAPI       = "api"
	SyncTriggerScheduler = "scheduler"
	SyncTriggerCLI       = "cli"
)

type syncTriggerKey struct{}

// WithSyncTrigger tags the sync runs started under ctx with their origin.
func WithSyncTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, syncTriggerKey{}, strings.TrimSpace(trigger))
}

func syncTriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(syncTriggerKey{}).(string); ok && v != "" {
		return v
	}
	return SyncTriggerAPI
}

// SyncRunService keeps the audit trail of sync calls. Recording failures are
// logged and never fail the sync itself. A nil *SyncRunService records nothing.
type SyncRunService struct {
	repo   syncrun.Repository
	ids    id.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewSyncRunService(repo syncrun.Repository, ids id.Generator, logger *logging.Logger) *SyncRunService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncRunService{
		repo:   repo,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SyncRunService) Start(ctx context.Context, kind syncrun.Kind, leagueID *int64) string {
	if s == nil || s.repo == nil {
		return ""
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate sync run id failed", "kind", kind, "error", err)
		return ""
	}

	run := syncrun.Run{
		ID:        runID,
		Kind:      kind,
		LeagueID:  leagueID,
		Trigger:   syncTriggerFromContext(ctx),
		Status:    syncrun.StatusRunning,
		StartedAt: s.now().UTC(),
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.HasTraceID() {
		run.TraceID = spanCtx.TraceID().String()
	}

	if err := s.repo.Create(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record sync run start failed", "kind", kind, "error", err)
		return ""
	}
	return runID
}

func (s *SyncRunService) Finish(ctx context.Context, runID string, result any, syncErr error) {
	if s == nil || s.repo == nil || runID == "" {
		return
	}

	finishedAt := s.now().UTC()
	run := syncrun.Run{
		ID:         runID,
		Status:     syncrun.StatusCompleted,
		FinishedAt: &finishedAt,
	}
	if syncErr != nil {
		run.Status = syncrun.StatusFailed
		run.Error = syncErr.Error()
	} else if result != nil {
		payload, err := sonic.Marshal(result)
		if err != nil {
			s.logger.WarnContext(ctx, "encode sync run result failed", "run_id", runID, "error", err)
		} else {
			run.Result = payload
		}
	}

	// The caller's ctx may already be cancelled once the sync returns.
	if err := s.repo.Finish(context.WithoutCancel(ctx), run); err != nil {
		s.logger.WarnContext(ctx, "record sync run finish failed", "run_id", runID, "error", err)
	}
}

func (s *SyncRunService) Get(ctx context.Context, runID string) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunService.Get")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if !id.Valid(runID) {
		return syncrun.Run{}, fmt.Errorf("%w: run id must be a uuid", ErrInvalidInput)
	}

	run, exists, err := s.repo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !exists {
		return syncrun.Run{}, fmt.Errorf("%w: sync run=%s", ErrNotFound, runID)
	}
	return run, nil
}

func (s *SyncRunService) List(ctx context.Context, leagueID *int64, limit int) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunService.List")
	defer span.End()

	if leagueID != nil && *leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be a positive integer", ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = defaultSyncRunListLimit
	case limit > maxSyncRunListLimit:
		limit = maxSyncRunListLimit
	}

	runs, err := s.repo.ListRecent(ctx, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

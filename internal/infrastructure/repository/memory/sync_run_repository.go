package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/football-api/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu   sync.RWMutex
	runs map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{runs: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Create(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("sync run %s already exists", run.ID)
	}
	r.runs[run.ID] = run
	return nil
}

func (r *SyncRunRepository) Finish(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.runs[run.ID]
	if !exists {
		return fmt.Errorf("finish sync run %s: no row updated", run.ID)
	}
	current.Status = run.Status
	current.Result = append([]byte(nil), run.Result...)
	current.Error = run.Error
	current.FinishedAt = run.FinishedAt
	r.runs[run.ID] = current
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, runID string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[runID]
	return run, ok, nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, leagueID *int64, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	out := make([]syncrun.Run, 0, len(r.runs))
	for _, run := range r.runs {
		if leagueID != nil && (run.LeagueID == nil || *run.LeagueID != *leagueID) {
			continue
		}
		out = append(out, run)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

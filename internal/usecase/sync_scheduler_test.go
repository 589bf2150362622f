package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/football-api/internal/domain/league"
	leaguemock "github.com/riskibarqy/football-api/internal/mocks/domain/league"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type recordingSyncer struct {
	mu        sync.Mutex
	teams     []int64
	matches   []int64
	failTeams map[int64]bool
	done      chan int64
}

func (s *recordingSyncer) SyncTeamsAndPlayers(_ context.Context, leagueID int64) (SyncTeamsResult, error) {
	s.mu.Lock()
	s.teams = append(s.teams, leagueID)
	fail := s.failTeams[leagueID]
	s.mu.Unlock()
	if fail {
		if s.done != nil {
			s.done <- leagueID
		}
		return SyncTeamsResult{}, ErrUpstreamUnavailable
	}
	return SyncTeamsResult{TotalTeam: 1}, nil
}

func (s *recordingSyncer) SyncMatches(_ context.Context, leagueID int64) (SyncMatchesResult, error) {
	s.mu.Lock()
	s.matches = append(s.matches, leagueID)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- leagueID
	}
	return SyncMatchesResult{MatchesAdded: 1}, nil
}

func TestSyncScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).Return([]league.League{{ID: 1}, {ID: 2}, {ID: 3}}, nil).Once()

	syncer := &recordingSyncer{failTeams: map[int64]bool{2: true}}
	scheduler := NewSyncScheduler(syncer, leagueRepo, clockwork.NewFakeClock(), SyncSchedulerConfig{Workers: 2}, logging.NewNop())

	got, err := scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if got.LeagueCount != 3 || got.Succeeded != 2 || got.Failed != 1 {
		t.Fatalf("unexpected pass result: %+v", got)
	}
	if len(syncer.teams) != 3 || len(syncer.matches) != 2 {
		t.Fatalf("matches must only run after a successful team sync: teams=%v matches=%v", syncer.teams, syncer.matches)
	}
}

func TestSyncScheduler_RunOnceListFailure(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

	scheduler := NewSyncScheduler(&recordingSyncer{}, leagueRepo, nil, SyncSchedulerConfig{}, logging.NewNop())
	if _, err := scheduler.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected list error")
	}
}

func TestSyncScheduler_RunTicksOnInterval(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	leagueRepo.On("List", mock.Anything).Return([]league.League{{ID: 7}}, nil).Once()

	clock := clockwork.NewFakeClock()
	syncer := &recordingSyncer{done: make(chan int64, 1)}
	scheduler := NewSyncScheduler(syncer, leagueRepo, clock, SyncSchedulerConfig{Interval: time.Hour, Workers: 1}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- scheduler.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("scheduler never created its ticker: %v", err)
	}
	clock.Advance(time.Hour)

	select {
	case leagueID := <-syncer.done:
		if leagueID != 7 {
			t.Fatalf("unexpected league synced: %d", leagueID)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("scheduled pass did not run")
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("scheduler did not stop")
	}
}

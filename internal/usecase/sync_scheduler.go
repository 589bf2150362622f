package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/platform/logging"
)

// LeagueSyncer is the part of SyncService the scheduler drives.
type LeagueSyncer interface {
	SyncTeamsAndPlayers(ctx context.Context, leagueID int64) (SyncTeamsResult, error)
	SyncMatches(ctx context.Context, leagueID int64) (SyncMatchesResult, error)
}

type SyncSchedulerConfig struct {
	Interval   time.Duration
	Workers    int
	RunOnStart bool
}

type SyncPassResult struct {
	LeagueCount int `json:"leagueCount"`
	Succeeded   int `json:"succeeded"`
	Failed      int `json:"failed"`
}

// SyncScheduler periodically refreshes teams, players and matches of every
// stored league. It shares the per-league lock with API triggered syncs.
type SyncScheduler struct {
	syncer     LeagueSyncer
	leagueRepo league.Repository
	clock      clockwork.Clock
	cfg        SyncSchedulerConfig
	logger     *logging.Logger
}

func NewSyncScheduler(
	syncer LeagueSyncer,
	leagueRepo league.Repository,
	clock clockwork.Clock,
	cfg SyncSchedulerConfig,
	logger *logging.Logger,
) *SyncScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncScheduler{
		syncer:     syncer,
		leagueRepo: leagueRepo,
		clock:      clock,
		cfg:        cfg,
		logger:     logger.Named("scheduler"),
	}
}

// Run blocks until ctx ends, starting one pass per interval. A pass that is
// still running when the next tick fires delays that tick.
func (s *SyncScheduler) Run(ctx context.Context) error {
	ctx = WithSyncTrigger(ctx, SyncTriggerScheduler)
	s.logger.InfoContext(ctx, "sync scheduler started", "interval", s.cfg.Interval.String(), "workers", s.cfg.Workers)

	if s.cfg.RunOnStart {
		s.pass(ctx)
	}

	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return nil
		case <-ticker.Chan():
			s.pass(ctx)
		}
	}
}

func (s *SyncScheduler) pass(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled sync pass failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled sync pass done",
		"leagues", result.LeagueCount,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
}

// RunOnce syncs every stored league once: teams and players first, then matches.
func (s *SyncScheduler) RunOnce(ctx context.Context) (SyncPassResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncScheduler.RunOnce")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return SyncPassResult{}, fmt.Errorf("list leagues: %w", err)
	}

	result := SyncPassResult{LeagueCount: len(leagues)}
	if len(leagues) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return SyncPassResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var succeeded atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	for _, lg := range leagues {
		lg := lg
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if s.syncLeague(ctx, lg) {
				succeeded.Add(1)
				return
			}
			failed.Add(1)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return SyncPassResult{}, fmt.Errorf("submit league sync to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Succeeded = int(succeeded.Load())
	result.Failed = int(failed.Load())
	return result, nil
}

func (s *SyncScheduler) syncLeague(ctx context.Context, lg league.League) bool {
	teams, err := s.syncer.SyncTeamsAndPlayers(ctx, lg.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled team sync failed", "league_id", lg.ID, "error", err)
		return false
	}

	matches, err := s.syncer.SyncMatches(ctx, lg.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled match sync failed", "league_id", lg.ID, "error", err)
		return false
	}

	s.logger.DebugContext(ctx, "scheduled league sync done",
		"league_id", lg.ID,
		"teams_created", teams.TotalTeam,
		"players_created", teams.TotalPlayer,
		"matches_added", matches.MatchesAdded,
		"matches_updated", matches.MatchesUpdated,
	)
	return true
}

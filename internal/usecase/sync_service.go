package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/domain/team"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/platform/resilience"
)

// SyncLocker serializes sync calls sharing a key across the whole call.
type SyncLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// SyncObserver receives sync outcomes, e.g. for metrics.
type SyncObserver interface {
	ObserveSync(kind syncrun.Kind, outcome string, elapsed time.Duration)
	ObserveRecords(entity string, created, updated, failed int)
}

type noopSyncObserver struct{}

func (noopSyncObserver) ObserveSync(syncrun.Kind, string, time.Duration) {}
func (noopSyncObserver) ObserveRecords(string, int, int, int)             {}

func NewNoopSyncObserver() SyncObserver {
	return noopSyncObserver{}
}

type SyncConfig struct {
	// SeasonFrom and SeasonTo bound get_events, formatted YYYY-MM-DD.
	SeasonFrom string
	SeasonTo   string
	// SeasonTag keeps only events whose league_year equals it. Empty disables the filter.
	SeasonTag string
}

func (c SyncConfig) Validate() error {
	from, err := time.Parse(time.DateOnly, c.SeasonFrom)
	if err != nil {
		return fmt.Errorf("%w: season from %q: %v", ErrInvalidInput, c.SeasonFrom, err)
	}
	to, err := time.Parse(time.DateOnly, c.SeasonTo)
	if err != nil {
		return fmt.Errorf("%w: season to %q: %v", ErrInvalidInput, c.SeasonTo, err)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: season window ends before it starts", ErrInvalidInput)
	}
	return nil
}

const (
	syncOutcomeSuccess = "success"
	syncOutcomeFailed  = "failed"
)

// SyncService pulls leagues, teams, players and matches from the provider
// and reconciles them into storage keyed by external reference.
type SyncService struct {
	provider   FootballDataProvider
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	locker     SyncLocker
	runs       *SyncRunService
	observer   SyncObserver
	cfg        SyncConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewSyncService(
	provider FootballDataProvider,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	locker SyncLocker,
	runs *SyncRunService,
	observer SyncObserver,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if locker == nil {
		locker = resilience.NewKeyedMutex()
	}
	if observer == nil {
		observer = NewNoopSyncObserver()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		provider:   provider,
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		locker:     locker,
		runs:       runs,
		observer:   observer,
		cfg:        cfg,
		logger:     logger.Named("sync"),
		now:        time.Now,
	}
}

func leagueLockKey(leagueID int64) string {
	return fmt.Sprintf("league:%d", leagueID)
}

// tracked holds the lock for key, records a sync run around fn and reports
// the outcome to the observer. The returned run id is empty when no run
// could be recorded.
func tracked[T any](
	ctx context.Context,
	s *SyncService,
	kind syncrun.Kind,
	leagueID *int64,
	lockKey string,
	fn func(context.Context) (T, error),
) (T, string, error) {
	var zero T
	start := s.now()

	unlock, err := s.locker.Lock(ctx, lockKey)
	if err != nil {
		return zero, "", fmt.Errorf("%w: acquire sync lock %s: %w", ErrDependencyUnavailable, lockKey, err)
	}
	defer unlock()

	runID := s.runs.Start(ctx, kind, leagueID)
	result, err := fn(ctx)
	s.runs.Finish(ctx, runID, result, err)

	outcome := syncOutcomeSuccess
	if err != nil {
		outcome = syncOutcomeFailed
	}
	s.observer.ObserveSync(kind, outcome, s.now().Sub(start))

	if err != nil {
		return zero, runID, err
	}
	return result, runID, nil
}

func (s *SyncService) getLeague(ctx context.Context, leagueID int64) (league.League, error) {
	if leagueID <= 0 {
		return league.League{}, fmt.Errorf("%w: league id must be a positive integer", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league id=%d: %w", leagueID, err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	return item, nil
}

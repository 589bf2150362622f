package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	leaguemock "github.com/riskibarqy/football-api/internal/mocks/domain/league"
	matchmock "github.com/riskibarqy/football-api/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/football-api/internal/mocks/domain/player"
	syncrunmock "github.com/riskibarqy/football-api/internal/mocks/domain/syncrun"
	teammock "github.com/riskibarqy/football-api/internal/mocks/domain/team"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type fixedIDs struct {
	id  string
	err error
}

func (g fixedIDs) NewID() (string, error) {
	return g.id, g.err
}

const testRunID = "0190b8a4-6f5c-7cc2-9a11-0c3f3b7d1e20"

func TestSyncService_RecordsRunLifecycle(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	runRepo := syncrunmock.NewRepository(t)
	provider := &stubProvider{teams: map[string][]ExternalRecord{"PL1": {{"team_key": "T1", "team_name": "Arsenal"}}}}

	leagueRepo.On("GetByID", mock.Anything, int64(1)).Return(league.League{ID: 1, ExternalRef: "PL1"}, true, nil).Once()
	teamRepo.On("BulkUpsert", mock.Anything, mock.AnythingOfType("[]team.Team")).
		Return([]upsert.Row{{ID: 10, ExternalRef: "T1", Inserted: true}}, nil).
		Once()
	runRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(run syncrun.Run) bool {
			return run.ID == testRunID && run.Kind == syncrun.KindTeams && run.Status == syncrun.StatusRunning &&
				run.LeagueID != nil && *run.LeagueID == 1 && run.Trigger == SyncTriggerCLI
		})).
		Return(nil).
		Once()
	runRepo.
		On("Finish", mock.Anything, mock.MatchedBy(func(run syncrun.Run) bool {
			return run.ID == testRunID && run.Status == syncrun.StatusCompleted && run.FinishedAt != nil &&
				string(run.Result) == `{"totalTeam":1,"totalPlayer":0,"teamsUpdated":0,"playersUpdated":0,"errors":[]}`
		})).
		Return(nil).
		Once()

	runs := NewSyncRunService(runRepo, fixedIDs{id: testRunID}, logging.NewNop())
	service := NewSyncService(provider, leagueRepo, teamRepo, playermock.NewRepository(t), matchmock.NewRepository(t),
		nil, runs, nil, testSyncConfig(), logging.NewNop())

	got, err := service.SyncTeamsAndPlayers(WithSyncTrigger(context.Background(), SyncTriggerCLI), 1)
	if err != nil {
		t.Fatalf("sync teams: %v", err)
	}
	if got.RunID != testRunID {
		t.Fatalf("unexpected run id %q", got.RunID)
	}
}

func TestSyncRunService_FailedSyncStoresError(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	runRepo.
		On("Finish", mock.Anything, mock.MatchedBy(func(run syncrun.Run) bool {
			return run.Status == syncrun.StatusFailed && run.Error != "" && run.Result == nil
		})).
		Return(nil).
		Once()

	runs := NewSyncRunService(runRepo, fixedIDs{id: testRunID}, logging.NewNop())
	runID := runs.Start(context.Background(), syncrun.KindLeague, nil)
	runs.Finish(context.Background(), runID, SyncLeagueResult{}, ErrNotFound)
}

func TestSyncRunService_RecordingFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	runs := NewSyncRunService(runRepo, fixedIDs{id: testRunID}, logging.NewNop())
	if runID := runs.Start(context.Background(), syncrun.KindMatches, nil); runID != "" {
		t.Fatalf("expected empty run id when create fails, got %q", runID)
	}
	// No Finish call is expected for an unrecorded run.
	runs.Finish(context.Background(), "", nil, nil)

	var nilRuns *SyncRunService
	if runID := nilRuns.Start(context.Background(), syncrun.KindMatches, nil); runID != "" {
		t.Fatalf("nil service must not record")
	}
}

func TestSyncRunService_GetAndList(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	runs := NewSyncRunService(runRepo, nil, logging.NewNop())

	if _, err := runs.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	runRepo.On("GetByID", mock.Anything, testRunID).Return(syncrun.Run{}, false, nil).Once()
	if _, err := runs.Get(context.Background(), testRunID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	leagueID := int64(4)
	started := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	runRepo.On("ListRecent", mock.Anything, &leagueID, maxSyncRunListLimit).
		Return([]syncrun.Run{{ID: testRunID, StartedAt: started}}, nil).
		Once()
	got, err := runs.List(context.Background(), &leagueID, 1000)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(got) != 1 || !got[0].StartedAt.Equal(started) {
		t.Fatalf("unexpected runs: %+v", got)
	}

	bad := int64(-1)
	if _, err := runs.List(context.Background(), &bad, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/domain/team"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

// SyncTeamsResult counts newly created teams and players. Rows updated in
// place are reported separately.
type SyncTeamsResult struct {
	TotalTeam      int      `json:"totalTeam"`
	TotalPlayer    int      `json:"totalPlayer"`
	TeamsUpdated   int      `json:"teamsUpdated"`
	PlayersUpdated int      `json:"playersUpdated"`
	Errors         []string `json:"errors"`
	RunID          string   `json:"-"`
}

// SyncTeamsAndPlayers imports the teams of a stored league together with
// their nested squads. Teams are stored first so players can reference them.
func (s *SyncService) SyncTeamsAndPlayers(ctx context.Context, leagueID int64) (SyncTeamsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeamsAndPlayers", leagueAttr(leagueID))
	defer span.End()

	if leagueID <= 0 {
		return SyncTeamsResult{}, fmt.Errorf("%w: league id must be a positive integer", ErrInvalidInput)
	}

	result, runID, err := tracked(ctx, s, syncrun.KindTeams, &leagueID, leagueLockKey(leagueID), func(ctx context.Context) (SyncTeamsResult, error) {
		return s.syncTeamsAndPlayers(ctx, leagueID)
	})
	result.RunID = runID
	return result, err
}

func (s *SyncService) syncTeamsAndPlayers(ctx context.Context, leagueID int64) (SyncTeamsResult, error) {
	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return SyncTeamsResult{}, err
	}

	records, err := s.provider.FetchTeams(ctx, lg.ExternalRef)
	if err != nil {
		return SyncTeamsResult{}, fmt.Errorf("fetch teams league=%d: %w", leagueID, err)
	}

	result := SyncTeamsResult{Errors: []string{}}
	records = Dedupe(records, stringKey("team_key"))

	syncedAt := s.now().UTC()
	mappedTeams := make([]Mapped[team.Team], 0, len(records))
	for _, ext := range records {
		mappedTeams = append(mappedTeams, MapTeam(ext, lg.ID, syncedAt))
	}
	teams, reasons := Collect(mappedTeams)
	result.Errors = append(result.Errors, reasons...)

	teamOutcome := reconcile(ctx, s, "team", teams, s.teamRepo.BulkUpsert)
	result.TotalTeam = teamOutcome.Created
	result.TeamsUpdated = teamOutcome.Updated
	result.Errors = append(result.Errors, teamOutcome.Errors...)

	teamIDs := upsert.IDsByRef(teamOutcome.Rows)
	players := s.mapSquads(records, teamIDs, &result)

	playerOutcome := reconcile(ctx, s, "player", players, s.playerRepo.BulkUpsert)
	result.TotalPlayer = playerOutcome.Created
	result.PlayersUpdated = playerOutcome.Updated
	result.Errors = append(result.Errors, playerOutcome.Errors...)

	s.logger.InfoContext(ctx, "teams and players synced",
		"league_id", leagueID,
		"teams_created", result.TotalTeam,
		"teams_updated", result.TeamsUpdated,
		"players_created", result.TotalPlayer,
		"players_updated", result.PlayersUpdated,
		"errors", len(result.Errors),
	)
	return result, nil
}

// mapSquads flattens the nested players of every team that was stored in
// this call. Squads of teams whose upsert failed are left out.
func (s *SyncService) mapSquads(teamRecords []ExternalRecord, teamIDs map[string]int64, result *SyncTeamsResult) []player.Player {
	type squadMember struct {
		ext    ExternalRecord
		teamID int64
	}

	var members []squadMember
	for _, ext := range teamRecords {
		key, _ := ext.String("team_key")
		teamID, ok := teamIDs[key]
		if !ok {
			continue
		}
		for _, p := range ext.Records("players") {
			members = append(members, squadMember{ext: p, teamID: teamID})
		}
	}

	members = Dedupe(members, func(m squadMember) string {
		value, _ := m.ext.String("player_id")
		return value
	})

	mappedPlayers := make([]Mapped[player.Player], 0, len(members))
	for _, m := range members {
		mappedPlayers = append(mappedPlayers, MapPlayer(m.ext, m.teamID))
	}
	players, reasons := Collect(mappedPlayers)
	result.Errors = append(result.Errors, reasons...)
	return players
}

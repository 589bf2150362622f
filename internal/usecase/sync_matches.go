package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
)

type SyncMatchesResult struct {
	MatchesAdded   int      `json:"matchesAdded"`
	MatchesUpdated int      `json:"matchesUpdated"`
	Errors         []string `json:"errors"`
	RunID          string   `json:"-"`
}

// SyncMatches imports the season's events for a stored league. Events whose
// home or away team is not stored yet are skipped with "Teams not found".
func (s *SyncService) SyncMatches(ctx context.Context, leagueID int64) (SyncMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatches", leagueAttr(leagueID))
	defer span.End()

	if leagueID <= 0 {
		return SyncMatchesResult{}, fmt.Errorf("%w: league id must be a positive integer", ErrInvalidInput)
	}

	result, runID, err := tracked(ctx, s, syncrun.KindMatches, &leagueID, leagueLockKey(leagueID), func(ctx context.Context) (SyncMatchesResult, error) {
		return s.syncMatches(ctx, leagueID)
	})
	result.RunID = runID
	return result, err
}

func (s *SyncService) syncMatches(ctx context.Context, leagueID int64) (SyncMatchesResult, error) {
	lg, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return SyncMatchesResult{}, err
	}

	records, err := s.provider.FetchEvents(ctx, lg.ExternalRef, s.cfg.SeasonFrom, s.cfg.SeasonTo)
	if err != nil {
		return SyncMatchesResult{}, fmt.Errorf("fetch events league=%d: %w", leagueID, err)
	}
	records = s.filterSeason(records)

	teams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return SyncMatchesResult{}, fmt.Errorf("list teams league=%d: %w", leagueID, err)
	}
	resolver := NewTeamRefResolver(teams)

	result := SyncMatchesResult{Errors: []string{}}
	records = Dedupe(records, stringKey("match_id"))

	mappedMatches := make([]Mapped[match.Match], 0, len(records))
	for _, ext := range records {
		mappedMatches = append(mappedMatches, s.resolveAndMapMatch(ext, lg.ID, resolver))
	}
	matches, reasons := Collect(mappedMatches)
	result.Errors = append(result.Errors, reasons...)

	outcome := reconcile(ctx, s, "match", matches, s.matchRepo.BulkUpsert)
	result.MatchesAdded = outcome.Created
	result.MatchesUpdated = outcome.Updated
	result.Errors = append(result.Errors, outcome.Errors...)

	s.logger.InfoContext(ctx, "matches synced",
		"league_id", leagueID,
		"resolvable_teams", resolver.Len(),
		"added", result.MatchesAdded,
		"updated", result.MatchesUpdated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *SyncService) resolveAndMapMatch(ext ExternalRecord, leagueID int64, resolver *TeamRefResolver) Mapped[match.Match] {
	homeRef, _ := ext.String("match_hometeam_id")
	awayRef, _ := ext.String("match_awayteam_id")
	homeID, awayID, ok := resolver.ResolvePair(homeRef, awayRef)
	if !ok {
		matchRef, _ := ext.String("match_id")
		return skipped[match.Match](fmt.Sprintf("match %s: %s", matchRef, reasonTeamsNotFound))
	}
	return MapMatch(ext, leagueID, homeID, awayID)
}

func (s *SyncService) filterSeason(records []ExternalRecord) []ExternalRecord {
	if s.cfg.SeasonTag == "" {
		return records
	}

	out := make([]ExternalRecord, 0, len(records))
	for _, ext := range records {
		if year, _ := ext.String("league_year"); year == s.cfg.SeasonTag {
			out = append(out, ext)
		}
	}
	return out
}

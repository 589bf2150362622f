package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
)

type SyncLeagueInput struct {
	LeagueName    string
	LeagueCountry string
}

type SyncLeagueResult struct {
	League league.League
	RunID  string
}

// SyncLeague imports one league from the provider catalog, matching name and
// country case-insensitively. The stored record keeps the provider casing.
func (s *SyncService) SyncLeague(ctx context.Context, input SyncLeagueInput) (SyncLeagueResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeague")
	defer span.End()

	name := strings.TrimSpace(input.LeagueName)
	country := strings.TrimSpace(input.LeagueCountry)
	if name == "" || country == "" {
		return SyncLeagueResult{}, fmt.Errorf("%w: leagueName and leagueCountry are required", ErrInvalidInput)
	}

	lockKey := "league-create:" + league.NaturalKey(name, country)
	created, runID, err := tracked(ctx, s, syncrun.KindLeague, nil, lockKey, func(ctx context.Context) (league.League, error) {
		return s.syncLeague(ctx, name, country)
	})
	if err != nil {
		return SyncLeagueResult{RunID: runID}, err
	}
	return SyncLeagueResult{League: created, RunID: runID}, nil
}

func (s *SyncService) syncLeague(ctx context.Context, name, country string) (league.League, error) {
	_, exists, err := s.leagueRepo.FindByNameCountry(ctx, name, country)
	if err != nil {
		return league.League{}, fmt.Errorf("find league name=%q country=%q: %w", name, country, err)
	}
	if exists {
		return league.League{}, fmt.Errorf("%w: league %q (%s)", ErrConflict, name, country)
	}

	records, err := s.provider.FetchLeagues(ctx)
	if err != nil {
		return league.League{}, fmt.Errorf("fetch leagues: %w", err)
	}

	ext, ok := FindLeague(records, name, country)
	if !ok {
		return league.League{}, fmt.Errorf("%w: league %q (%s) not found upstream", ErrNotFound, name, country)
	}

	item, err := MapLeague(ext)
	if err != nil {
		return league.League{}, fmt.Errorf("map league: %w", err)
	}

	created, err := s.leagueRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return league.League{}, err
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	s.logger.InfoContext(ctx, "league synced",
		"league_id", created.ID,
		"external_ref", created.ExternalRef,
		"name", created.Name,
	)
	return created, nil
}

package httpapi

import (
	"encoding/json"
	"time"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/syncrun"
	"github.com/riskibarqy/football-api/internal/usecase"
)

type syncLeagueRequest struct {
	LeagueName    string `json:"leagueName" validate:"required,max=200"`
	LeagueCountry string `json:"leagueCountry" validate:"required,max=200"`
}

type leagueDTO struct {
	ID          int64     `json:"id"`
	ExternalRef string    `json:"externalRef"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	LogoURL     *string   `json:"logoUrl"`
	Season      *string   `json:"season"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type syncTeamsDTO struct {
	TotalTeam      int      `json:"totalTeam"`
	TotalPlayer    int      `json:"totalPlayer"`
	TeamsUpdated   int      `json:"teamsUpdated"`
	PlayersUpdated int      `json:"playersUpdated"`
	Errors         []string `json:"errors"`
}

type syncMatchesDTO struct {
	MatchesAdded   int      `json:"matchesAdded"`
	MatchesUpdated int      `json:"matchesUpdated"`
	Errors         []string `json:"errors"`
}

type syncRunDTO struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	LeagueID   *int64          `json:"leagueId"`
	Trigger    string          `json:"trigger"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	TraceID    string          `json:"traceId,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt *time.Time      `json:"finishedAt"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:          v.ID,
		ExternalRef: v.ExternalRef,
		Name:        v.Name,
		Country:     v.Country,
		LogoURL:     v.LogoURL,
		Season:      v.Season,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func syncTeamsToDTO(v usecase.SyncTeamsResult) syncTeamsDTO {
	return syncTeamsDTO{
		TotalTeam:      v.TotalTeam,
		TotalPlayer:    v.TotalPlayer,
		TeamsUpdated:   v.TeamsUpdated,
		PlayersUpdated: v.PlayersUpdated,
		Errors:         nonNilStrings(v.Errors),
	}
}

func syncMatchesToDTO(v usecase.SyncMatchesResult) syncMatchesDTO {
	return syncMatchesDTO{
		MatchesAdded:   v.MatchesAdded,
		MatchesUpdated: v.MatchesUpdated,
		Errors:         nonNilStrings(v.Errors),
	}
}

func syncRunToDTO(v syncrun.Run) syncRunDTO {
	return syncRunDTO{
		ID:         v.ID,
		Kind:       string(v.Kind),
		LeagueID:   v.LeagueID,
		Trigger:    v.Trigger,
		Status:     string(v.Status),
		Result:     json.RawMessage(v.Result),
		Error:      v.Error,
		TraceID:    v.TraceID,
		StartedAt:  v.StartedAt,
		FinishedAt: v.FinishedAt,
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

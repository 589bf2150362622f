package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/match"
	"github.com/riskibarqy/football-api/internal/domain/player"
	"github.com/riskibarqy/football-api/internal/domain/team"
)

const reasonTeamsNotFound = "Teams not found"

// Mapped is either a converted record or the reason it was skipped.
type Mapped[T any] struct {
	Record  T
	Skipped bool
	Reason  string
}

func mapped[T any](record T) Mapped[T] {
	return Mapped[T]{Record: record}
}

func skipped[T any](reason string) Mapped[T] {
	return Mapped[T]{Skipped: true, Reason: reason}
}

func missingField(field string) string {
	return "missing required field " + field
}

// Collect splits mapped results into records and skip reasons.
func Collect[T any](items []Mapped[T]) ([]T, []string) {
	records := make([]T, 0, len(items))
	var reasons []string
	for _, item := range items {
		if item.Skipped {
			reasons = append(reasons, item.Reason)
			continue
		}
		records = append(records, item.Record)
	}
	return records, reasons
}

// MapTeam requires team_key and team_name. Venue fields come from the nested
// venue object and the coach is the first entry of coaches.
func MapTeam(ext ExternalRecord, leagueID int64, syncedAt time.Time) Mapped[team.Team] {
	key, ok := ext.String("team_key")
	if !ok {
		return skipped[team.Team](missingField("team_key"))
	}
	name, ok := ext.String("team_name")
	if !ok {
		return skipped[team.Team](fmt.Sprintf("team %s: %s", key, missingField("team_name")))
	}

	venue := ext.Record("venue")
	item := team.Team{
		LeagueID:        leagueID,
		ExternalRef:     key,
		Name:            name,
		Country:         ext.OptionalString("team_country"),
		LogoURL:         ext.OptionalString("team_badge"),
		Founded:         ext.OptionalInt("team_founded"),
		StadiumName:     venue.OptionalString("venue_name"),
		StadiumAddress:  venue.OptionalString("venue_address"),
		StadiumCity:     venue.OptionalString("venue_city"),
		StadiumCapacity: venue.OptionalInt("venue_capacity"),
		LastSyncedAt:    syncedAt,
	}
	if coaches := ext.Records("coaches"); len(coaches) > 0 {
		item.Coach = coaches[0].OptionalString("coach_name")
	}

	return mapped(item)
}

// MapPlayer requires player_id and player_name.
func MapPlayer(ext ExternalRecord, teamID int64) Mapped[player.Player] {
	key, ok := ext.String("player_id")
	if !ok {
		return skipped[player.Player](missingField("player_id"))
	}
	name, ok := ext.String("player_name")
	if !ok {
		return skipped[player.Player](fmt.Sprintf("player %s: %s", key, missingField("player_name")))
	}

	return mapped(player.Player{
		TeamID:          teamID,
		ExternalRef:     key,
		FullName:        name,
		PrimaryPosition: ext.OptionalString("player_type"),
		Age:             ext.OptionalInt("player_age"),
		ShirtNumber:     ext.OptionalInt("player_number"),
		ThumbURL:        ext.OptionalString("player_image"),
		Country:         ext.OptionalString("player_country"),
	})
}

// MapMatch copies date, time and scores verbatim and normalizes the status.
func MapMatch(ext ExternalRecord, leagueID, homeTeamID, awayTeamID int64) Mapped[match.Match] {
	key, ok := ext.String("match_id")
	if !ok {
		return skipped[match.Match](missingField("match_id"))
	}

	status, _ := ext.String("match_status")
	return mapped(match.Match{
		LeagueID:    leagueID,
		HomeTeamID:  homeTeamID,
		AwayTeamID:  awayTeamID,
		ExternalRef: key,
		MatchDate:   ext.VerbatimString("match_date"),
		MatchTime:   ext.VerbatimString("match_time"),
		HomeScore:   ext.VerbatimString("match_hometeam_score"),
		AwayScore:   ext.VerbatimString("match_awayteam_score"),
		Status:      match.NormalizeStatus(status),
		Venue:       ext.OptionalString("match_stadium"),
		Round:       ext.OptionalString("match_round"),
	})
}

// FindLeague returns the first provider record whose league_name and
// country_name equal the inputs ignoring case.
func FindLeague(records []ExternalRecord, name, country string) (ExternalRecord, bool) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	for _, record := range records {
		recordName, _ := record.String("league_name")
		recordCountry, _ := record.String("country_name")
		if strings.EqualFold(recordName, name) && strings.EqualFold(recordCountry, country) {
			return record, true
		}
	}
	return nil, false
}

// MapLeague keeps the provider casing. Unlike the batch mappers it fails
// because league sync stores exactly one record.
func MapLeague(ext ExternalRecord) (league.League, error) {
	ref, ok := ext.String("league_id")
	if !ok {
		return league.League{}, fmt.Errorf("%w: league_id", ErrMissingRequiredField)
	}
	name, ok := ext.String("league_name")
	if !ok {
		return league.League{}, fmt.Errorf("%w: league_name", ErrMissingRequiredField)
	}
	country, ok := ext.String("country_name")
	if !ok {
		return league.League{}, fmt.Errorf("%w: country_name", ErrMissingRequiredField)
	}

	return league.League{
		ExternalRef: ref,
		Name:        name,
		Country:     country,
		LogoURL:     ext.OptionalString("league_logo"),
		Season:      ext.OptionalString("league_season"),
	}, nil
}

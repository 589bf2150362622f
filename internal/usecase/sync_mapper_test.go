package usecase

import (
	"errors"
	"testing"
	"time"
)

func TestMapTeam_MapsRequiredAndOptionalFields(t *testing.T) {
	t.Parallel()

	syncedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ext := ExternalRecord{
		"team_key":     "141",
		"team_name":    "Arsenal",
		"team_country": "England",
		"team_founded": "1886",
		"team_badge":   "https://example.test/141.png",
		"venue": map[string]any{
			"venue_name":     "Emirates Stadium",
			"venue_address":  "Highbury House, 75 Drayton Park",
			"venue_city":     "London",
			"venue_capacity": "60383",
		},
		"coaches": []any{
			map[string]any{"coach_name": "M. Arteta"},
			map[string]any{"coach_name": "Assistant"},
		},
	}

	got := MapTeam(ext, 7, syncedAt)
	if got.Skipped {
		t.Fatalf("unexpected skip: %s", got.Reason)
	}
	item := got.Record
	if item.ExternalRef != "141" || item.Name != "Arsenal" || item.LeagueID != 7 {
		t.Fatalf("unexpected identity fields: %+v", item)
	}
	if item.Founded == nil || *item.Founded != 1886 {
		t.Fatalf("unexpected founded: %v", item.Founded)
	}
	if item.StadiumCapacity == nil || *item.StadiumCapacity != 60383 {
		t.Fatalf("unexpected capacity: %v", item.StadiumCapacity)
	}
	if item.StadiumCity == nil || *item.StadiumCity != "London" {
		t.Fatalf("unexpected stadium city: %v", item.StadiumCity)
	}
	if item.Coach == nil || *item.Coach != "M. Arteta" {
		t.Fatalf("expected first coach, got %v", item.Coach)
	}
	if !item.LastSyncedAt.Equal(syncedAt) {
		t.Fatalf("unexpected last synced at: %s", item.LastSyncedAt)
	}
}

func TestMapTeam_AbsentOptionalFieldsAreNil(t *testing.T) {
	t.Parallel()

	got := MapTeam(ExternalRecord{"team_key": "T1", "team_name": "Arsenal", "team_founded": "unknown"}, 1, time.Now())
	if got.Skipped {
		t.Fatalf("unexpected skip: %s", got.Reason)
	}
	item := got.Record
	if item.Country != nil || item.LogoURL != nil || item.Founded != nil || item.StadiumName != nil ||
		item.StadiumAddress != nil || item.StadiumCity != nil || item.StadiumCapacity != nil || item.Coach != nil {
		t.Fatalf("expected nil optional fields, got %+v", item)
	}
}

func TestMapTeam_SkipsMissingIdentity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ext  ExternalRecord
	}{
		{name: "missing key", ext: ExternalRecord{"team_name": "Arsenal"}},
		{name: "blank name", ext: ExternalRecord{"team_key": "T1", "team_name": "  "}},
		{name: "null name", ext: ExternalRecord{"team_key": "T1", "team_name": nil}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := MapTeam(tc.ext, 1, time.Now())
			if !got.Skipped || got.Reason == "" {
				t.Fatalf("expected skip with reason, got %+v", got)
			}
		})
	}
}

func TestMapPlayer(t *testing.T) {
	t.Parallel()

	got := MapPlayer(ExternalRecord{
		"player_id":      float64(2481),
		"player_name":    "B. Saka",
		"player_type":    "Forwards",
		"player_age":     "24",
		"player_number":  "7",
		"player_country": "England",
	}, 10)
	if got.Skipped {
		t.Fatalf("unexpected skip: %s", got.Reason)
	}
	item := got.Record
	if item.ExternalRef != "2481" || item.TeamID != 10 || item.FullName != "B. Saka" {
		t.Fatalf("unexpected player: %+v", item)
	}
	if item.Age == nil || *item.Age != 24 || item.ShirtNumber == nil || *item.ShirtNumber != 7 {
		t.Fatalf("unexpected numeric fields: %+v", item)
	}
	if item.ThumbURL != nil {
		t.Fatalf("expected nil thumb, got %v", *item.ThumbURL)
	}

	if missing := MapPlayer(ExternalRecord{"player_name": "No Id"}, 10); !missing.Skipped {
		t.Fatalf("expected skip for missing player_id")
	}
}

func TestMapMatch_StatusNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ext  ExternalRecord
		want string
	}{
		{name: "finished", ext: ExternalRecord{"match_id": "1", "match_status": "Finished"}, want: "finished"},
		{name: "empty", ext: ExternalRecord{"match_id": "2", "match_status": ""}, want: "upcoming"},
		{name: "null", ext: ExternalRecord{"match_id": "3", "match_status": nil}, want: "upcoming"},
		{name: "absent", ext: ExternalRecord{"match_id": "4"}, want: "upcoming"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := MapMatch(tc.ext, 1, 10, 11)
			if got.Skipped {
				t.Fatalf("unexpected skip: %s", got.Reason)
			}
			if got.Record.Status != tc.want {
				t.Fatalf("status=%q want %q", got.Record.Status, tc.want)
			}
		})
	}
}

func TestMapMatch_CopiesValuesVerbatim(t *testing.T) {
	t.Parallel()

	got := MapMatch(ExternalRecord{
		"match_id":             "86392",
		"match_date":           "2025-08-16",
		"match_time":           "17:30",
		"match_hometeam_score": "2",
		"match_awayteam_score": "",
		"match_stadium":        "Emirates Stadium (London)",
		"match_round":          "1",
	}, 1, 10, 11).Record

	if got.MatchDate == nil || *got.MatchDate != "2025-08-16" || got.MatchTime == nil || *got.MatchTime != "17:30" {
		t.Fatalf("unexpected date/time: %+v", got)
	}
	if got.HomeScore == nil || *got.HomeScore != "2" || got.AwayScore == nil || *got.AwayScore != "" {
		t.Fatalf("unexpected scores: home=%v away=%v", got.HomeScore, got.AwayScore)
	}

	unplayed := MapMatch(ExternalRecord{
		"match_id":             "86393",
		"match_hometeam_score": " 1 ",
		"match_awayteam_score": float64(0),
	}, 1, 10, 11).Record
	if unplayed.HomeScore == nil || *unplayed.HomeScore != " 1 " {
		t.Fatalf("home score must pass through untouched, got %v", unplayed.HomeScore)
	}
	if unplayed.AwayScore == nil || *unplayed.AwayScore != "0" {
		t.Fatalf("numeric score must be formatted, got %v", unplayed.AwayScore)
	}
	if unplayed.MatchDate != nil || unplayed.MatchTime != nil {
		t.Fatalf("absent date/time must stay nil: %+v", unplayed)
	}
	if got.HomeTeamID != 10 || got.AwayTeamID != 11 || got.ExternalRef != "86392" {
		t.Fatalf("unexpected references: %+v", got)
	}
}

func TestFindLeague_CaseInsensitiveKeepsUpstreamCasing(t *testing.T) {
	t.Parallel()

	records := []ExternalRecord{
		{"league_id": "149", "league_name": "Championship", "country_name": "England"},
		{"league_id": "152", "league_name": "PREMIER LEAGUE", "country_name": "ENGLAND", "league_logo": "https://example.test/152.png"},
		{"league_id": "999", "league_name": "Premier League", "country_name": "England"},
	}

	ext, ok := FindLeague(records, "premier league", " england ")
	if !ok {
		t.Fatalf("expected league match")
	}
	item, err := MapLeague(ext)
	if err != nil {
		t.Fatalf("map league: %v", err)
	}
	if item.ExternalRef != "152" || item.Name != "PREMIER LEAGUE" || item.Country != "ENGLAND" {
		t.Fatalf("unexpected league: %+v", item)
	}
	if item.LogoURL == nil || item.Season != nil {
		t.Fatalf("unexpected optional fields: %+v", item)
	}

	if _, ok := FindLeague(records, "premier league", "Wales"); ok {
		t.Fatalf("country must match as well")
	}
}

func TestMapLeague_MissingRequiredField(t *testing.T) {
	t.Parallel()

	_, err := MapLeague(ExternalRecord{"league_name": "Premier League", "country_name": "England"})
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if !errors.Is(err, ErrUpstreamInvalidResponse) {
		t.Fatalf("missing field must count as invalid upstream response, got %v", err)
	}
}

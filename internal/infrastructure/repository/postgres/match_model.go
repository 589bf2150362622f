package postgres

import "time"

type matchTableModel struct {
	ID          int64     `db:"id"`
	LeagueID    int64     `db:"league_id"`
	HomeTeamID  int64     `db:"home_team_id"`
	AwayTeamID  int64     `db:"away_team_id"`
	ExternalRef string    `db:"external_ref"`
	MatchDate   *string   `db:"match_date"`
	MatchTime   *string   `db:"match_time"`
	HomeScore   *string   `db:"home_score"`
	AwayScore   *string   `db:"away_score"`
	Status      string    `db:"status"`
	Venue       *string   `db:"venue"`
	Round       *string   `db:"round"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchUpsertModel struct {
	ExternalRef string  `db:"external_ref"`
	LeagueID    int64   `db:"league_id"`
	HomeTeamID  int64   `db:"home_team_id"`
	AwayTeamID  int64   `db:"away_team_id"`
	MatchDate   *string `db:"match_date"`
	MatchTime   *string `db:"match_time"`
	HomeScore   *string `db:"home_score"`
	AwayScore   *string `db:"away_score"`
	Status      string  `db:"status"`
	Venue       *string `db:"venue"`
	Round       *string `db:"round"`
}

var matchUpdateColumns = []string{
	"league_id",
	"home_team_id",
	"away_team_id",
	"match_date",
	"match_time",
	"home_score",
	"away_score",
	"status",
	"venue",
	"round",
}

package postgres

import "time"

type teamTableModel struct {
	ID              int64     `db:"id"`
	LeagueID        int64     `db:"league_id"`
	ExternalRef     string    `db:"external_ref"`
	Name            string    `db:"name"`
	Country         *string   `db:"country"`
	LogoURL         *string   `db:"logo_url"`
	Founded         *int      `db:"founded"`
	StadiumName     *string   `db:"stadium_name"`
	StadiumAddress  *string   `db:"stadium_address"`
	StadiumCity     *string   `db:"stadium_city"`
	StadiumCapacity *int      `db:"stadium_capacity"`
	Coach           *string   `db:"coach"`
	LastSyncedAt    time.Time `db:"last_synced_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type teamUpsertModel struct {
	ExternalRef     string    `db:"external_ref"`
	LeagueID        int64     `db:"league_id"`
	Name            string    `db:"name"`
	Country         *string   `db:"country"`
	LogoURL         *string   `db:"logo_url"`
	Founded         *int      `db:"founded"`
	StadiumName     *string   `db:"stadium_name"`
	StadiumAddress  *string   `db:"stadium_address"`
	StadiumCity     *string   `db:"stadium_city"`
	StadiumCapacity *int      `db:"stadium_capacity"`
	Coach           *string   `db:"coach"`
	LastSyncedAt    time.Time `db:"last_synced_at"`
}

// Every column except the identity and external_ref is refreshed on conflict.
var teamUpdateColumns = []string{
	"league_id",
	"name",
	"country",
	"logo_url",
	"founded",
	"stadium_name",
	"stadium_address",
	"stadium_city",
	"stadium_capacity",
	"coach",
	"last_synced_at",
}

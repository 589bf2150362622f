package postgres

import "time"

type playerTableModel struct {
	ID              int64     `db:"id"`
	TeamID          int64     `db:"team_id"`
	ExternalRef     string    `db:"external_ref"`
	FullName        string    `db:"full_name"`
	PrimaryPosition *string   `db:"primary_position"`
	Age             *int      `db:"age"`
	ShirtNumber     *int      `db:"shirt_number"`
	ThumbURL        *string   `db:"thumb_url"`
	Country         *string   `db:"country"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type playerUpsertModel struct {
	ExternalRef     string  `db:"external_ref"`
	TeamID          int64   `db:"team_id"`
	FullName        string  `db:"full_name"`
	PrimaryPosition *string `db:"primary_position"`
	Age             *int    `db:"age"`
	ShirtNumber     *int    `db:"shirt_number"`
	ThumbURL        *string `db:"thumb_url"`
	Country         *string `db:"country"`
}

var playerUpdateColumns = []string{
	"team_id",
	"full_name",
	"primary_position",
	"age",
	"shirt_number",
	"thumb_url",
	"country",
}

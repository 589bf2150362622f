package postgres

import "time"

type leagueTableModel struct {
	ID          int64     `db:"id"`
	ExternalRef string    `db:"external_ref"`
	Name        string    `db:"name"`
	Country     string    `db:"country"`
	LogoURL     *string   `db:"logo_url"`
	Season      *string   `db:"season"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	ExternalRef string  `db:"external_ref"`
	Name        string  `db:"name"`
	Country     string  `db:"country"`
	LogoURL     *string `db:"logo_url"`
	Season      *string `db:"season"`
}

package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a club belonging to a league, keyed upstream by team_key.
type Team struct {
	ID              int64
	LeagueID        int64
	ExternalRef     string
	Name            string
	Country         *string
	LogoURL         *string
	Founded         *int
	StadiumName     *string
	StadiumAddress  *string
	StadiumCity     *string
	StadiumCapacity *int
	Coach           *string
	LastSyncedAt    time.Time
}

func (t Team) Validate() error {
	if t.LeagueID <= 0 {
		return fmt.Errorf("team league id is required")
	}
	if strings.TrimSpace(t.ExternalRef) == "" {
		return fmt.Errorf("team external ref is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

package player

import (
	"fmt"
	"strings"
)

// Player is a squad member of a team, keyed upstream by player_id.
type Player struct {
	ID              int64
	TeamID          int64
	ExternalRef     string
	FullName        string
	PrimaryPosition *string
	Age             *int
	ShirtNumber     *int
	ThumbURL        *string
	Country         *string
}

func (p Player) Validate() error {
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.ExternalRef) == "" {
		return fmt.Errorf("player external ref is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

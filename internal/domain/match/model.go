package match

import (
	"fmt"
	"strings"
)

const (
	StatusUpcoming = "upcoming"
	StatusFinished = "finished"
)

// Match is a fixture between two stored teams. Date, time and scores are kept
// exactly as the provider sends them.
type Match struct {
	ID          int64
	LeagueID    int64
	HomeTeamID  int64
	AwayTeamID  int64
	ExternalRef string
	MatchDate   *string
	MatchTime   *string
	HomeScore   *string
	AwayScore   *string
	Status      string
	Venue       *string
	Round       *string
}

// NormalizeStatus lower-cases the provider status; empty means upcoming.
func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusUpcoming
	}
	return status
}

func (m Match) Validate() error {
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league id is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match teams are required")
	}
	if strings.TrimSpace(m.ExternalRef) == "" {
		return fmt.Errorf("match external ref is required")
	}

	return nil
}

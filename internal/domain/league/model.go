package league

import (
	"fmt"
	"strings"
	"time"
)

// League is a competition imported from the football data provider.
type League struct {
	ID          int64
	ExternalRef string
	Name        string
	Country     string
	LogoURL     *string
	Season      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l League) Validate() error {
	if strings.TrimSpace(l.ExternalRef) == "" {
		return fmt.Errorf("league external ref is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if strings.TrimSpace(l.Country) == "" {
		return fmt.Errorf("league country is required")
	}

	return nil
}

// NaturalKey is the case-insensitive (name, country) identity used for dedupe.
func NaturalKey(name, country string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(country))
}

package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	// FindByNameCountry matches both fields case-insensitively.
	FindByNameCountry(ctx context.Context, name, country string) (League, bool, error)
	Create(ctx context.Context, item League) (League, error)
}

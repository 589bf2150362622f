package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/team"
	"github.com/riskibarqy/football-api/internal/domain/upsert"
	basecache "github.com/riskibarqy/football-api/internal/platform/cache"
)

const (
	leagueKeyPrefix   = "league:"
	leagueListKey     = "league:list"
	teamListKeyPrefix = "team:list:"
)

// LeagueRepository caches List and GetByID. FindByNameCountry always reaches
// storage because it guards league creation.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := basecache.Load(ctx, r.cache, leagueListKey, func(ctx context.Context) ([]league.League, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := leagueKeyPrefix + "id:" + strconv.FormatInt(leagueID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedLeagueByID, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return cachedLeagueByID{}, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) FindByNameCountry(ctx context.Context, name, country string) (league.League, bool, error) {
	return r.next.FindByNameCountry(ctx, name, country)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return league.League{}, err
	}
	// Misses are cached too, so every league key goes.
	r.cache.DeletePrefix(ctx, leagueKeyPrefix)
	return created, nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamListKey(leagueID), func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) BulkUpsert(ctx context.Context, items []team.Team) ([]upsert.Row, error) {
	rows, err := r.next.BulkUpsert(ctx, items)
	// Teams can move between leagues, so every league listing is dropped.
	r.cache.DeletePrefix(ctx, teamListKeyPrefix)
	return rows, err
}

func teamListKey(leagueID int64) string {
	return teamListKeyPrefix + strconv.FormatInt(leagueID, 10)
}

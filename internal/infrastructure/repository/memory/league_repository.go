package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/usecase"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[int64]league.League
	keys   map[string]int64
	orders []int64
	nextID int64
	now    func() time.Time
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{
		items:  make(map[int64]league.League, len(leagues)),
		keys:   make(map[string]int64, len(leagues)),
		nextID: 1,
		now:    time.Now,
	}
	for _, l := range leagues {
		if l.ID >= r.nextID {
			r.nextID = l.ID + 1
		}
		r.items[l.ID] = l
		r.keys[league.NaturalKey(l.Name, l.Country)] = l.ID
		r.orders = append(r.orders, l.ID)
	}

	return r
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) FindByNameCountry(_ context.Context, name, country string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[league.NaturalKey(name, country)]
	if !ok {
		return league.League{}, false, nil
	}
	return r.items[id], true, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := league.NaturalKey(item.Name, item.Country)
	if _, exists := r.keys[key]; exists {
		return league.League{}, fmt.Errorf("%w: league %q (%s)", usecase.ErrConflict, item.Name, item.Country)
	}
	for _, existing := range r.items {
		if existing.ExternalRef == item.ExternalRef {
			return league.League{}, fmt.Errorf("%w: league external ref %s", usecase.ErrConflict, item.ExternalRef)
		}
	}

	now := r.now().UTC()
	item.ID = r.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.nextID++

	r.items[item.ID] = item
	r.keys[key] = item.ID
	r.orders = append(r.orders, item.ID)

	return item, nil
}

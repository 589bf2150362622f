package usecase

import "github.com/riskibarqy/football-api/internal/domain/team"

// TeamRefResolver maps provider team keys to stored team ids. It is built
// from the league's teams at the start of one sync call and then discarded.
type TeamRefResolver struct {
	ids map[string]int64
}

func NewTeamRefResolver(teams []team.Team) *TeamRefResolver {
	ids := make(map[string]int64, len(teams))
	for _, item := range teams {
		if item.ExternalRef == "" || item.ID <= 0 {
			continue
		}
		ids[item.ExternalRef] = item.ID
	}
	return &TeamRefResolver{ids: ids}
}

func (r *TeamRefResolver) Resolve(ref string) (int64, bool) {
	if r == nil || ref == "" {
		return 0, false
	}
	id, ok := r.ids[ref]
	return id, ok
}

// ResolvePair succeeds only when both sides resolve.
func (r *TeamRefResolver) ResolvePair(homeRef, awayRef string) (int64, int64, bool) {
	homeID, ok := r.Resolve(homeRef)
	if !ok {
		return 0, 0, false
	}
	awayID, ok := r.Resolve(awayRef)
	if !ok {
		return 0, 0, false
	}
	return homeID, awayID, true
}

func (r *TeamRefResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

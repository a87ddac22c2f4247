package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arrotech/codarena/internal/domain/cohort"
)

type CohortRepository struct {
	mu           sync.RWMutex
	items        map[string]cohort.Cohort
	participants map[string]map[string]struct{}
}

func NewCohortRepository(cohorts []cohort.Cohort) *CohortRepository {
	items := make(map[string]cohort.Cohort, len(cohorts))
	for _, c := range cohorts {
		items[c.ID] = c
	}

	return &CohortRepository{
		items:        items,
		participants: make(map[string]map[string]struct{}),
	}
}

func (r *CohortRepository) ListOpen(_ context.Context) ([]cohort.Cohort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cohort.Cohort, 0, len(r.items))
	for _, c := range r.items {
		if c.IsOpenToJoin {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})

	return out, nil
}

func (r *CohortRepository) GetByID(_ context.Context, cohortID string) (cohort.Cohort, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[cohortID]
	if !ok {
		return cohort.Cohort{}, false, nil
	}

	return c, true, nil
}

func (r *CohortRepository) AddParticipant(_ context.Context, cohortID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.participants[cohortID]
	if !ok {
		set = make(map[string]struct{})
		r.participants[cohortID] = set
	}
	set[userID] = struct{}{}

	return nil
}

func (r *CohortRepository) IsParticipant(_ context.Context, cohortID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.participants[cohortID]
	if !ok {
		return false, nil
	}
	_, ok = set[userID]

	return ok, nil
}

func (r *CohortRepository) ListParticipants(_ context.Context, cohortID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.participants[cohortID]
	out := make([]string, 0, len(set))
	for userID := range set {
		out = append(out, userID)
	}
	sort.Strings(out)

	return out, nil
}

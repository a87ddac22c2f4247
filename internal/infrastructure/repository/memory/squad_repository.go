package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/arrotech/codarena/internal/domain/squad"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]squad.Squad
}

func NewSquadRepository(squads []squad.Squad) *SquadRepository {
	items := make(map[string]squad.Squad, len(squads))
	for _, s := range squads {
		items[s.ID] = cloneSquad(s)
	}

	return &SquadRepository{items: items}
}

func (r *SquadRepository) Create(_ context.Context, s squad.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.ID] = cloneSquad(s)

	return nil
}

func (r *SquadRepository) GetByID(_ context.Context, squadID string) (squad.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[squadID]
	if !ok {
		return squad.Squad{}, false, nil
	}

	return cloneSquad(s), true, nil
}

func (r *SquadRepository) ListByMember(_ context.Context, userID string) ([]squad.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]squad.Squad, 0)
	for _, s := range r.items {
		if s.HasMember(userID) {
			out = append(out, cloneSquad(s))
		}
	}

	return out, nil
}

// AddMember rechecks size against capacity under the write lock, mirroring
// the transactional guard in the postgres repository.
func (r *SquadRepository) AddMember(_ context.Context, squadID, userID string, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[squadID]
	if !ok {
		return fmt.Errorf("lock squad: %s not found", squadID)
	}
	if s.HasMember(userID) {
		return squad.ErrAlreadyMember
	}
	if len(s.MemberIDs) >= capacity {
		return squad.ErrCapacityExceeded
	}

	s.MemberIDs = append(s.MemberIDs, userID)
	r.items[squadID] = s

	return nil
}

func cloneSquad(s squad.Squad) squad.Squad {
	out := s
	out.MemberIDs = append([]string(nil), s.MemberIDs...)

	return out
}

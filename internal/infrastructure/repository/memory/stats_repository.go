package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/arrotech/codarena/internal/domain/stats"
)

type StatsRepository struct {
	mu       sync.Mutex
	items    map[string]stats.PlayerRoundStats
	userRepo *UserRepository
}

// NewStatsRepository resolves gamer tags for leaderboard rows through the
// user repository.
func NewStatsRepository(userRepo *UserRepository) *StatsRepository {
	return &StatsRepository{
		items:    make(map[string]stats.PlayerRoundStats),
		userRepo: userRepo,
	}
}

func (r *StatsRepository) Upsert(_ context.Context, s stats.PlayerRoundStats) (stats.PlayerRoundStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.UserID + "|" + s.CohortID + "|" + s.RoundRef
	if existing, ok := r.items[key]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	}
	r.items[key] = s

	return s, nil
}

func (r *StatsRepository) Leaderboard(ctx context.Context, f stats.LeaderboardFilter) ([]stats.LeaderboardRow, error) {
	r.mu.Lock()
	byUser := make(map[string]*stats.LeaderboardRow)
	for _, s := range r.items {
		if f.CohortID != "" && s.CohortID != f.CohortID {
			continue
		}
		if f.GameModeID != "" && s.GameModeID != f.GameModeID {
			continue
		}
		row, ok := byUser[s.UserID]
		if !ok {
			row = &stats.LeaderboardRow{UserID: s.UserID}
			byUser[s.UserID] = row
		}
		row.Kills += s.Kills
		row.Deaths += s.Deaths
		row.Damage += s.Damage
		row.XP += s.XP
		row.Matches++
	}
	r.mu.Unlock()

	out := make([]stats.LeaderboardRow, 0, len(byUser))
	for _, row := range byUser {
		if r.userRepo != nil {
			if u, exists, err := r.userRepo.GetByID(ctx, row.UserID); err == nil && exists {
				row.GamerTag = u.GamerTag
			}
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(row.GamerTag), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].Kills > out[j].Kills
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}

package stats

import "context"

// LeaderboardFilter narrows a leaderboard query. All fields are optional;
// Query matches gamer tags.
type LeaderboardFilter struct {
	CohortID   string
	GameModeID string
	Query      string
	Limit      int
}

// Repository describes stats persistence needs from use cases. Upsert is
// keyed on (user, cohort, round ref). Leaderboard returns rows ordered by
// total XP descending, then total kills descending.
type Repository interface {
	Upsert(ctx context.Context, s PlayerRoundStats) (PlayerRoundStats, error)
	Leaderboard(ctx context.Context, f LeaderboardFilter) ([]LeaderboardRow, error)
}

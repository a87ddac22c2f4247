package stats

import (
	"fmt"
	"time"
)

// PlayerRoundStats is one player's performance in one round of a cohort.
// Staff record these after each round; the leaderboard aggregates them.
// RoundRef identifies the round within the cohort, so (player, cohort,
// round ref) is the upsert key.
type PlayerRoundStats struct {
	ID         string
	UserID     string
	CohortID   string
	GameModeID string
	RoundRef   string
	Rank       int
	Kills      int
	Deaths     int
	Damage     int
	XP         int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s PlayerRoundStats) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("stats id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("stats user id is required")
	}
	if s.CohortID == "" {
		return fmt.Errorf("stats cohort id is required")
	}
	if s.RoundRef == "" {
		return fmt.Errorf("stats round ref is required")
	}
	if s.Kills < 0 || s.Deaths < 0 || s.Damage < 0 || s.XP < 0 {
		return fmt.Errorf("kills, deaths, damage and xp must not be negative")
	}

	return nil
}

// LeaderboardRow is the aggregated standing of one player.
type LeaderboardRow struct {
	UserID   string
	GamerTag string
	Kills    int
	Deaths   int
	Damage   int
	XP       int
	Matches  int
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/stats"
	"github.com/arrotech/codarena/internal/platform/querybuilder"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type statsRow struct {
	PublicID   string    `db:"public_id"`
	UserID     string    `db:"user_public_id"`
	CohortID   string    `db:"cohort_public_id"`
	GameModeID string    `db:"game_mode_public_id"`
	RoundRef   string    `db:"round_ref"`
	Rank       int       `db:"rank"`
	Kills      int       `db:"kills"`
	Deaths     int       `db:"deaths"`
	Damage     int       `db:"damage"`
	XP         int       `db:"xp"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (row statsRow) toDomain() stats.PlayerRoundStats {
	return stats.PlayerRoundStats{
		ID:         row.PublicID,
		UserID:     row.UserID,
		CohortID:   row.CohortID,
		GameModeID: row.GameModeID,
		RoundRef:   row.RoundRef,
		Rank:       row.Rank,
		Kills:      row.Kills,
		Deaths:     row.Deaths,
		Damage:     row.Damage,
		XP:         row.XP,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// Upsert records a player's round scoreline. Re-recording the same
// (user, cohort, round ref) replaces the previous entry and keeps the
// original public id and created_at.
func (r *StatsRepository) Upsert(ctx context.Context, s stats.PlayerRoundStats) (stats.PlayerRoundStats, error) {
	const query = `
INSERT INTO player_round_stats (
	public_id, user_public_id, cohort_public_id, game_mode_public_id, round_ref,
	rank, kills, deaths, damage, xp, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_public_id, cohort_public_id, round_ref) DO UPDATE
SET game_mode_public_id = EXCLUDED.game_mode_public_id,
    rank = EXCLUDED.rank,
    kills = EXCLUDED.kills,
    deaths = EXCLUDED.deaths,
    damage = EXCLUDED.damage,
    xp = EXCLUDED.xp,
    updated_at = EXCLUDED.updated_at
RETURNING public_id, user_public_id, cohort_public_id, game_mode_public_id, round_ref,
	rank, kills, deaths, damage, xp, created_at, updated_at`

	var row statsRow
	err := r.db.GetContext(ctx, &row, query,
		s.ID, s.UserID, s.CohortID, s.GameModeID, s.RoundRef,
		s.Rank, s.Kills, s.Deaths, s.Damage, s.XP, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return stats.PlayerRoundStats{}, fmt.Errorf("upsert round stats: %w", err)
	}

	return row.toDomain(), nil
}

type leaderboardRow struct {
	UserID   string `db:"user_public_id"`
	GamerTag string `db:"gamer_tag"`
	Kills    int    `db:"kills"`
	Deaths   int    `db:"deaths"`
	Damage   int    `db:"damage"`
	XP       int    `db:"xp"`
	Matches  int    `db:"matches"`
}

func (r *StatsRepository) Leaderboard(ctx context.Context, f stats.LeaderboardFilter) ([]stats.LeaderboardRow, error) {
	builder := querybuilder.Select(
		"s.user_public_id",
		"u.gamer_tag",
		"SUM(s.kills) AS kills",
		"SUM(s.deaths) AS deaths",
		"SUM(s.damage) AS damage",
		"SUM(s.xp) AS xp",
		"COUNT(*) AS matches",
	).
		From("player_round_stats s JOIN users u ON u.public_id = s.user_public_id").
		GroupBy("s.user_public_id", "u.gamer_tag").
		OrderBy("xp DESC", "kills DESC").
		Limit(f.Limit)

	conditions := []querybuilder.Condition{querybuilder.IsNull("u.deleted_at")}
	if f.CohortID != "" {
		conditions = append(conditions, querybuilder.Eq("s.cohort_public_id", f.CohortID))
	}
	if f.GameModeID != "" {
		conditions = append(conditions, querybuilder.Eq("s.game_mode_public_id", f.GameModeID))
	}
	if f.Query != "" {
		conditions = append(conditions, querybuilder.Expr("u.gamer_tag ILIKE ?", "%"+f.Query+"%"))
	}
	builder.Where(conditions...)

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	var rows []leaderboardRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	out := make([]stats.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, stats.LeaderboardRow{
			UserID:   row.UserID,
			GamerTag: row.GamerTag,
			Kills:    row.Kills,
			Deaths:   row.Deaths,
			Damage:   row.Damage,
			XP:       row.XP,
			Matches:  row.Matches,
		})
	}

	return out, nil
}

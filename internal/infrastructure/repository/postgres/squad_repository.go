package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/squad"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

type squadRow struct {
	PublicID   string `db:"public_id"`
	Name       string `db:"name"`
	CaptainID  string `db:"captain_public_id"`
	GameModeID string `db:"game_mode_public_id"`
}

func (r *SquadRepository) Create(ctx context.Context, s squad.Squad) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create squad: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertSquad = `
INSERT INTO squads (public_id, name, captain_public_id, game_mode_public_id)
VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(ctx, insertSquad, s.ID, s.Name, s.CaptainID, s.GameModeID); err != nil {
		return fmt.Errorf("insert squad: %w", err)
	}

	const insertMember = `
INSERT INTO squad_members (squad_public_id, user_public_id)
VALUES ($1, $2)`

	for _, memberID := range s.MemberIDs {
		if _, err := tx.ExecContext(ctx, insertMember, s.ID, memberID); err != nil {
			return fmt.Errorf("insert squad member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create squad: %w", err)
	}

	return nil
}

func (r *SquadRepository) GetByID(ctx context.Context, squadID string) (squad.Squad, bool, error) {
	const query = `
SELECT public_id, name, captain_public_id, game_mode_public_id
FROM squads
WHERE public_id = $1 AND deleted_at IS NULL`

	var row squadRow
	if err := r.db.GetContext(ctx, &row, query, squadID); err != nil {
		if isNotFound(err) {
			return squad.Squad{}, false, nil
		}
		return squad.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	members, err := r.members(ctx, squadID)
	if err != nil {
		return squad.Squad{}, false, err
	}

	return squad.Squad{
		ID:         row.PublicID,
		Name:       row.Name,
		CaptainID:  row.CaptainID,
		GameModeID: row.GameModeID,
		MemberIDs:  members,
	}, true, nil
}

func (r *SquadRepository) ListByMember(ctx context.Context, userID string) ([]squad.Squad, error) {
	const query = `
SELECT s.public_id, s.name, s.captain_public_id, s.game_mode_public_id
FROM squads s
JOIN squad_members m ON m.squad_public_id = s.public_id
WHERE m.user_public_id = $1 AND s.deleted_at IS NULL
ORDER BY s.name`

	var rows []squadRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list squads by member: %w", err)
	}

	out := make([]squad.Squad, 0, len(rows))
	for _, row := range rows {
		members, err := r.members(ctx, row.PublicID)
		if err != nil {
			return nil, err
		}
		out = append(out, squad.Squad{
			ID:         row.PublicID,
			Name:       row.Name,
			CaptainID:  row.CaptainID,
			GameModeID: row.GameModeID,
			MemberIDs:  members,
		})
	}

	return out, nil
}

// AddMember rechecks membership and capacity inside one transaction so
// concurrent approvals cannot overfill a roster. The squad row is locked
// for the duration of the check.
func (r *SquadRepository) AddMember(ctx context.Context, squadID, userID string, capacity int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add member: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var squadPK string
	if err := tx.GetContext(ctx, &squadPK,
		`SELECT public_id FROM squads WHERE public_id = $1 AND deleted_at IS NULL FOR UPDATE`,
		squadID,
	); err != nil {
		return fmt.Errorf("lock squad: %w", err)
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM squad_members WHERE squad_public_id = $1 AND user_public_id = $2)`,
		squadID, userID,
	); err != nil {
		return fmt.Errorf("check squad member: %w", err)
	}
	if exists {
		return squad.ErrAlreadyMember
	}

	var count int
	if err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM squad_members WHERE squad_public_id = $1`,
		squadID,
	); err != nil {
		return fmt.Errorf("count squad members: %w", err)
	}
	if count >= capacity {
		return squad.ErrCapacityExceeded
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO squad_members (squad_public_id, user_public_id) VALUES ($1, $2)`,
		squadID, userID,
	); err != nil {
		return fmt.Errorf("insert squad member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add member: %w", err)
	}

	return nil
}

func (r *SquadRepository) members(ctx context.Context, squadID string) ([]string, error) {
	const query = `
SELECT user_public_id
FROM squad_members
WHERE squad_public_id = $1
ORDER BY joined_at, user_public_id`

	var memberIDs []string
	if err := r.db.SelectContext(ctx, &memberIDs, query, squadID); err != nil {
		return nil, fmt.Errorf("list squad members: %w", err)
	}

	return memberIDs, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/gamemode"
)

type GameModeRepository struct {
	db *sqlx.DB
}

func NewGameModeRepository(db *sqlx.DB) *GameModeRepository {
	return &GameModeRepository{db: db}
}

type gameModeRow struct {
	PublicID    string `db:"public_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	EntryFee    int64  `db:"entry_fee"`
	MaxPlayers  int    `db:"max_players"`
}

func (row gameModeRow) toDomain() gamemode.GameMode {
	return gamemode.GameMode{
		ID:          row.PublicID,
		Name:        row.Name,
		Description: row.Description,
		EntryFee:    row.EntryFee,
		MaxPlayers:  row.MaxPlayers,
	}
}

func (r *GameModeRepository) List(ctx context.Context) ([]gamemode.GameMode, error) {
	const query = `
SELECT public_id, name, description, entry_fee, max_players
FROM game_modes
WHERE deleted_at IS NULL
ORDER BY max_players, name`

	var rows []gameModeRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list game modes: %w", err)
	}

	out := make([]gamemode.GameMode, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *GameModeRepository) GetByID(ctx context.Context, modeID string) (gamemode.GameMode, bool, error) {
	const query = `
SELECT public_id, name, description, entry_fee, max_players
FROM game_modes
WHERE public_id = $1 AND deleted_at IS NULL`

	var row gameModeRow
	if err := r.db.GetContext(ctx, &row, query, modeID); err != nil {
		if isNotFound(err) {
			return gamemode.GameMode{}, false, nil
		}
		return gamemode.GameMode{}, false, fmt.Errorf("get game mode: %w", err)
	}

	return row.toDomain(), true, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/arrotech/codarena/internal/domain/gamemode"
)

type GameModeRepository struct {
	mu     sync.RWMutex
	items  map[string]gamemode.GameMode
	orders []string
}

func NewGameModeRepository(modes []gamemode.GameMode) *GameModeRepository {
	items := make(map[string]gamemode.GameMode, len(modes))
	orders := make([]string, 0, len(modes))

	for _, m := range modes {
		items[m.ID] = m
		orders = append(orders, m.ID)
	}

	return &GameModeRepository{
		items:  items,
		orders: orders,
	}
}

func (r *GameModeRepository) List(_ context.Context) ([]gamemode.GameMode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamemode.GameMode, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *GameModeRepository) GetByID(_ context.Context, modeID string) (gamemode.GameMode, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[modeID]
	if !ok {
		return gamemode.GameMode{}, false, nil
	}

	return m, true, nil
}

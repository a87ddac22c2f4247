package gamemode

import "context"

// Repository describes game mode persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]GameMode, error)
	GetByID(ctx context.Context, modeID string) (GameMode, bool, error)
}

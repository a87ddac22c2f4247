package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByGamerTag(ctx context.Context, gamerTag string) (User, bool, error)
}

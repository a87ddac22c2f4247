package memory

import (
	"context"
	"sync"

	"github.com/arrotech/codarena/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
	byTag map[string]string
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	byTag := make(map[string]string, len(users))

	for _, u := range users {
		items[u.ID] = u
		byTag[u.GamerTag] = u.ID
	}

	return &UserRepository{
		items: items,
		byTag: byTag,
	}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return u, true, nil
}

func (r *UserRepository) GetByGamerTag(_ context.Context, gamerTag string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byTag[gamerTag]
	if !ok {
		return user.User{}, false, nil
	}

	return r.items[userID], true, nil
}

package cache

import (
	"context"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	basecache "github.com/arrotech/codarena/internal/platform/cache"
)

// GameModeRepository caches the game mode catalog, which only changes on
// deploys.
type GameModeRepository struct {
	next  gamemode.Repository
	cache *basecache.Store
}

func NewGameModeRepository(next gamemode.Repository, cache *basecache.Store) *GameModeRepository {
	return &GameModeRepository{next: next, cache: cache}
}

func (r *GameModeRepository) List(ctx context.Context) ([]gamemode.GameMode, error) {
	v, err := r.cache.GetOrLoad(ctx, "gamemode:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]gamemode.GameMode(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]gamemode.GameMode)
	return append([]gamemode.GameMode(nil), items...), nil
}

func (r *GameModeRepository) GetByID(ctx context.Context, modeID string) (gamemode.GameMode, bool, error) {
	key := "gamemode:id:" + modeID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, modeID)
		if err != nil {
			return nil, err
		}
		return cachedGameModeByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return gamemode.GameMode{}, false, err
	}

	cached, _ := v.(cachedGameModeByID)
	return cached.value, cached.exists, nil
}

type cachedGameModeByID struct {
	value  gamemode.GameMode
	exists bool
}

// CohortRepository caches cohort reads and invalidates the participant keys
// it owns on enrollment. Membership checks are cached per cohort and user so
// a burst of readiness lookups does not hammer the database.
type CohortRepository struct {
	next  cohort.Repository
	cache *basecache.Store
}

func NewCohortRepository(next cohort.Repository, cache *basecache.Store) *CohortRepository {
	return &CohortRepository{next: next, cache: cache}
}

func (r *CohortRepository) ListOpen(ctx context.Context) ([]cohort.Cohort, error) {
	v, err := r.cache.GetOrLoad(ctx, "cohort:list-open", func(ctx context.Context) (any, error) {
		items, err := r.next.ListOpen(ctx)
		if err != nil {
			return nil, err
		}
		return append([]cohort.Cohort(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]cohort.Cohort)
	return append([]cohort.Cohort(nil), items...), nil
}

func (r *CohortRepository) GetByID(ctx context.Context, cohortID string) (cohort.Cohort, bool, error) {
	key := "cohort:id:" + cohortID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, cohortID)
		if err != nil {
			return nil, err
		}
		return cachedCohortByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return cohort.Cohort{}, false, err
	}

	cached, _ := v.(cachedCohortByID)
	return cached.value, cached.exists, nil
}

func (r *CohortRepository) AddParticipant(ctx context.Context, cohortID, userID string) error {
	if err := r.next.AddParticipant(ctx, cohortID, userID); err != nil {
		return err
	}

	r.cache.Delete(ctx, cohortParticipantKey(cohortID, userID))
	r.cache.Delete(ctx, "cohort:participants:"+cohortID)
	return nil
}

func (r *CohortRepository) IsParticipant(ctx context.Context, cohortID, userID string) (bool, error) {
	key := cohortParticipantKey(cohortID, userID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		isParticipant, err := r.next.IsParticipant(ctx, cohortID, userID)
		if err != nil {
			return nil, err
		}
		return isParticipant, nil
	})
	if err != nil {
		return false, err
	}

	isParticipant, _ := v.(bool)
	return isParticipant, nil
}

func (r *CohortRepository) ListParticipants(ctx context.Context, cohortID string) ([]string, error) {
	key := "cohort:participants:" + cohortID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListParticipants(ctx, cohortID)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]string)
	return append([]string(nil), items...), nil
}

type cachedCohortByID struct {
	value  cohort.Cohort
	exists bool
}

func cohortParticipantKey(cohortID, userID string) string {
	return "cohort:participant:" + cohortID + ":" + userID
}

package squad

import "context"

// Repository describes squad persistence needs from use cases.
//
// AddMember is the concurrency guard for roster growth: it must recheck the
// roster size against capacity inside the same atomic update (transactional
// insert or equivalent) and return ErrCapacityExceeded when the addition
// would overflow, and ErrAlreadyMember when the user is already on the
// roster. Two concurrent capacity-checked additions must never both succeed
// past capacity.
type Repository interface {
	Create(ctx context.Context, s Squad) error
	GetByID(ctx context.Context, squadID string) (Squad, bool, error)
	ListByMember(ctx context.Context, userID string) ([]Squad, error)
	AddMember(ctx context.Context, squadID, userID string, capacity int) error
}

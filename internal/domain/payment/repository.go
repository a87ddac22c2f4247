package payment

import "context"

// SuccessQuery is the existence predicate the readiness engine runs per
// squad member: a SUCCESS ledger entry scoped to the exact
// (user, cohort, game mode, squad) tuple.
type SuccessQuery struct {
	UserID     string
	CohortID   string
	GameModeID string
	SquadID    string
}

// Repository describes ledger persistence needs from use cases.
//
// Finalize is a compare-and-set: it moves the transaction to the given
// terminal status and records the result code/description only when the
// current status is still PENDING, returning ErrAlreadyFinalized otherwise.
// This is what makes duplicate gateway callbacks safe.
type Repository interface {
	Create(ctx context.Context, t Transaction) error
	GetByRequestIDs(ctx context.Context, merchantRequestID, checkoutRequestID string) (Transaction, bool, error)
	Finalize(ctx context.Context, transactionID string, status Status, resultCode int, resultDescription string) (Transaction, error)
	HasSuccessfulPayment(ctx context.Context, q SuccessQuery) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
}

package cohort

import "context"

// Repository describes cohort persistence needs from use cases.
// AddParticipant has set semantics: enrolling an already enrolled user
// must succeed without duplicating the membership.
type Repository interface {
	ListOpen(ctx context.Context) ([]Cohort, error)
	GetByID(ctx context.Context, cohortID string) (Cohort, bool, error)
	AddParticipant(ctx context.Context, cohortID, userID string) error
	IsParticipant(ctx context.Context, cohortID, userID string) (bool, error)
	ListParticipants(ctx context.Context, cohortID string) ([]string, error)
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arrotech/codarena/internal/domain/payment"
)

type PaymentRepository struct {
	mu    sync.Mutex
	items map[string]payment.Transaction
	now   func() time.Time
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		items: make(map[string]payment.Transaction),
		now:   time.Now,
	}
}

func (r *PaymentRepository) Create(_ context.Context, t payment.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[t.ID] = t

	return nil
}

func (r *PaymentRepository) GetByRequestIDs(_ context.Context, merchantRequestID, checkoutRequestID string) (payment.Transaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.items {
		if t.MerchantRequestID == merchantRequestID && t.CheckoutRequestID == checkoutRequestID {
			return t, true, nil
		}
	}

	return payment.Transaction{}, false, nil
}

// Finalize moves a PENDING transaction to a terminal status under the lock,
// mirroring the status-preconditioned update in the postgres repository.
func (r *PaymentRepository) Finalize(_ context.Context, transactionID string, status payment.Status, resultCode int, resultDescription string) (payment.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[transactionID]
	if !ok {
		return payment.Transaction{}, payment.ErrAlreadyFinalized
	}
	if t.Status != payment.StatusPending {
		return payment.Transaction{}, payment.ErrAlreadyFinalized
	}

	t.Status = status
	t.ResultCode = &resultCode
	t.ResultDescription = resultDescription
	t.UpdatedAt = r.now().UTC()
	r.items[transactionID] = t

	return t, nil
}

func (r *PaymentRepository) HasSuccessfulPayment(_ context.Context, q payment.SuccessQuery) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.items {
		if t.Status == payment.StatusSuccess &&
			t.UserID == q.UserID &&
			t.CohortID == q.CohortID &&
			t.GameModeID == q.GameModeID &&
			t.SquadID == q.SquadID {
			return true, nil
		}
	}

	return false, nil
}

func (r *PaymentRepository) ListByUser(_ context.Context, userID string) ([]payment.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]payment.Transaction, 0)
	for _, t := range r.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

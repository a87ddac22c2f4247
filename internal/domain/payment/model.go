package payment

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGatewayRejected reports a push-payment request the gateway refused
	// synchronously. No ledger entry exists for a rejected request.
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
	// ErrAlreadyFinalized reports a callback for a transaction that already
	// reached SUCCESS or FAILED. Duplicate callbacks are acknowledged but
	// must not repeat side effects.
	ErrAlreadyFinalized = errors.New("transaction already finalized")
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Transaction is one payment attempt in the ledger. The pair of gateway
// issued identifiers is the only correlation key between initiation and the
// asynchronous callback; each identifier is globally unique on its own.
// PENDING transitions exactly once to SUCCESS or FAILED and is immutable
// afterwards.
type Transaction struct {
	ID                string
	MerchantRequestID string
	CheckoutRequestID string
	Amount            int64
	PhoneNumber       string
	Status            Status
	UserID            string
	CohortID          string
	GameModeID        string
	SquadID           string
	ResultCode        *int
	ResultDescription string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTerminal reports whether the transaction reached a final state.
func (t Transaction) IsTerminal() bool {
	return t.Status == StatusSuccess || t.Status == StatusFailed
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.MerchantRequestID == "" {
		return fmt.Errorf("merchant request id is required")
	}
	if t.CheckoutRequestID == "" {
		return fmt.Errorf("checkout request id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("transaction user id is required")
	}
	if t.CohortID == "" {
		return fmt.Errorf("transaction cohort id is required")
	}
	switch t.Status {
	case StatusPending, StatusSuccess, StatusFailed:
	default:
		return fmt.Errorf("unknown transaction status %q", t.Status)
	}

	return nil
}

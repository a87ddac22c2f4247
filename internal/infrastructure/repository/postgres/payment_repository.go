package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/payment"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type transactionRow struct {
	PublicID          string    `db:"public_id"`
	MerchantRequestID string    `db:"merchant_request_id"`
	CheckoutRequestID string    `db:"checkout_request_id"`
	Amount            int64     `db:"amount"`
	PhoneNumber       string    `db:"phone_number"`
	Status            string    `db:"status"`
	UserID            string    `db:"user_public_id"`
	CohortID          string    `db:"cohort_public_id"`
	GameModeID        string    `db:"game_mode_public_id"`
	SquadID           *string   `db:"squad_public_id"`
	ResultCode        *int      `db:"result_code"`
	ResultDescription *string   `db:"result_description"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (row transactionRow) toDomain() payment.Transaction {
	t := payment.Transaction{
		ID:                row.PublicID,
		MerchantRequestID: row.MerchantRequestID,
		CheckoutRequestID: row.CheckoutRequestID,
		Amount:            row.Amount,
		PhoneNumber:       row.PhoneNumber,
		Status:            payment.Status(row.Status),
		UserID:            row.UserID,
		CohortID:          row.CohortID,
		GameModeID:        row.GameModeID,
		ResultCode:        row.ResultCode,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.SquadID != nil {
		t.SquadID = *row.SquadID
	}
	if row.ResultDescription != nil {
		t.ResultDescription = *row.ResultDescription
	}

	return t
}

const transactionColumns = `public_id, merchant_request_id, checkout_request_id, amount, phone_number,
	status, user_public_id, cohort_public_id, game_mode_public_id, squad_public_id,
	result_code, result_description, created_at, updated_at`

func (r *PaymentRepository) Create(ctx context.Context, t payment.Transaction) error {
	const query = `
INSERT INTO transactions (
	public_id, merchant_request_id, checkout_request_id, amount, phone_number,
	status, user_public_id, cohort_public_id, game_mode_public_id, squad_public_id,
	created_at, updated_at
) VALUES (
	:public_id, :merchant_request_id, :checkout_request_id, :amount, :phone_number,
	:status, :user_public_id, :cohort_public_id, :game_mode_public_id, :squad_public_id,
	:created_at, :updated_at
)`

	var squadID *string
	if t.SquadID != "" {
		squadID = &t.SquadID
	}

	args := map[string]any{
		"public_id":           t.ID,
		"merchant_request_id": t.MerchantRequestID,
		"checkout_request_id": t.CheckoutRequestID,
		"amount":              t.Amount,
		"phone_number":        t.PhoneNumber,
		"status":              string(t.Status),
		"user_public_id":      t.UserID,
		"cohort_public_id":    t.CohortID,
		"game_mode_public_id": t.GameModeID,
		"squad_public_id":     squadID,
		"created_at":          t.CreatedAt,
		"updated_at":          t.UpdatedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetByRequestIDs(ctx context.Context, merchantRequestID, checkoutRequestID string) (payment.Transaction, bool, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE merchant_request_id = $1 AND checkout_request_id = $2`

	var row transactionRow
	if err := r.db.GetContext(ctx, &row, query, merchantRequestID, checkoutRequestID); err != nil {
		if isNotFound(err) {
			return payment.Transaction{}, false, nil
		}
		return payment.Transaction{}, false, fmt.Errorf("get transaction by request ids: %w", err)
	}

	return row.toDomain(), true, nil
}

// Finalize moves the transaction to a terminal status only when it is still
// PENDING. The status precondition lives in the UPDATE itself so concurrent
// callbacks race on the database, not on application state.
func (r *PaymentRepository) Finalize(ctx context.Context, transactionID string, status payment.Status, resultCode int, resultDescription string) (payment.Transaction, error) {
	query := `
UPDATE transactions
SET status = $2, result_code = $3, result_description = $4, updated_at = NOW()
WHERE public_id = $1 AND status = 'PENDING'
RETURNING ` + transactionColumns

	var row transactionRow
	err := r.db.GetContext(ctx, &row, query, transactionID, string(status), resultCode, resultDescription)
	if err != nil {
		if isNotFound(err) {
			return payment.Transaction{}, payment.ErrAlreadyFinalized
		}
		return payment.Transaction{}, fmt.Errorf("finalize transaction: %w", err)
	}

	return row.toDomain(), nil
}

func (r *PaymentRepository) HasSuccessfulPayment(ctx context.Context, q payment.SuccessQuery) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM transactions
	WHERE status = 'SUCCESS'
	  AND user_public_id = $1
	  AND cohort_public_id = $2
	  AND game_mode_public_id = $3
	  AND squad_public_id IS NOT DISTINCT FROM NULLIF($4, '')
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, q.UserID, q.CohortID, q.GameModeID, q.SquadID); err != nil {
		return false, fmt.Errorf("check successful payment: %w", err)
	}

	return exists, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]payment.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE user_public_id = $1
ORDER BY created_at DESC`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list transactions by user: %w", err)
	}

	out := make([]payment.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InitiatePayment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req initiatePaymentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	txn, err := h.paymentService.Initiate(ctx, usecase.InitiatePaymentInput{
		UserID:      principal.UserID,
		CohortID:    req.CohortID,
		GameModeID:  req.GameModeID,
		SquadID:     req.SquadID,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "initiate payment failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transactionToDTO(ctx, txn))
}

func (h *Handler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPayments")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	txns, err := h.paymentService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list payments failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(txns))
	for _, txn := range txns {
		items = append(items, transactionToDTO(ctx, txn))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// PaymentCallback receives the gateway's asynchronous payment result. The
// gateway retries on non-2xx, so every recognizable outcome is acknowledged
// with 200 and a machine-readable status; only an unparseable body is a 400.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PaymentCallback")
	defer span.End()

	var envelope stkCallbackEnvelope
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeCallbackAck(ctx, w, http.StatusBadRequest, callbackAck{
			ResultCode: 1,
			ResultDesc: "Rejected",
			Status:     "malformed",
		})
		return
	}

	cb := envelope.Body.STKCallback
	if cb.MerchantRequestID == "" || cb.CheckoutRequestID == "" {
		writeCallbackAck(ctx, w, http.StatusBadRequest, callbackAck{
			ResultCode: 1,
			ResultDesc: "Rejected",
			Status:     "malformed",
		})
		return
	}

	_, err := h.paymentService.Reconcile(ctx, usecase.ReconcileInput{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDescription: cb.ResultDesc,
	})
	switch {
	case err == nil:
		writeCallbackAck(ctx, w, http.StatusOK, callbackAck{
			ResultCode: 0,
			ResultDesc: "Accepted",
			Status:     "processed",
		})
	case errors.Is(err, payment.ErrAlreadyFinalized):
		writeCallbackAck(ctx, w, http.StatusOK, callbackAck{
			ResultCode: 0,
			ResultDesc: "Accepted",
			Status:     "already_processed",
		})
	case errors.Is(err, usecase.ErrNotFound):
		writeCallbackAck(ctx, w, http.StatusOK, callbackAck{
			ResultCode: 0,
			ResultDesc: "Accepted",
			Status:     "transaction_not_found",
		})
	default:
		h.logger.ErrorContext(ctx, "payment callback failed",
			"merchant_request_id", cb.MerchantRequestID,
			"checkout_request_id", cb.CheckoutRequestID,
			"error", err,
		)
		writeInternalError(ctx, w)
	}
}

type stkCallbackEnvelope struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type callbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
	Status     string `json:"status"`
}

func writeCallbackAck(ctx context.Context, w http.ResponseWriter, status int, ack callbackAck) {
	ctx, span := startSpan(ctx, "httpapi.writeCallbackAck")
	defer span.End()

	writeJSON(ctx, w, status, ack)
}

type initiatePaymentRequest struct {
	CohortID    string `json:"cohort_id" validate:"required"`
	GameModeID  string `json:"game_mode_id" validate:"required"`
	SquadID     string `json:"squad_id"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
}

type transactionDTO struct {
	ID                string `json:"id"`
	MerchantRequestID string `json:"merchantRequestId"`
	CheckoutRequestID string `json:"checkoutRequestId"`
	Amount            int64  `json:"amount"`
	PhoneNumber       string `json:"phoneNumber"`
	Status            string `json:"status"`
	CohortID          string `json:"cohortId"`
	GameModeID        string `json:"gameModeId"`
	SquadID           string `json:"squadId,omitempty"`
	ResultCode        *int   `json:"resultCode,omitempty"`
	ResultDescription string `json:"resultDescription,omitempty"`
	CreatedAt         string `json:"createdAtUtc"`
	UpdatedAt         string `json:"updatedAtUtc"`
}

func transactionToDTO(ctx context.Context, v payment.Transaction) transactionDTO {
	ctx, span := startSpan(ctx, "httpapi.transactionToDTO")
	defer span.End()

	return transactionDTO{
		ID:                v.ID,
		MerchantRequestID: v.MerchantRequestID,
		CheckoutRequestID: v.CheckoutRequestID,
		Amount:            v.Amount,
		PhoneNumber:       v.PhoneNumber,
		Status:            string(v.Status),
		CohortID:          v.CohortID,
		GameModeID:        v.GameModeID,
		SquadID:           v.SquadID,
		ResultCode:        v.ResultCode,
		ResultDescription: v.ResultDescription,
		CreatedAt:         v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/arrotech/codarena/external/daraja"
	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
	"github.com/arrotech/codarena/internal/platform/id"
	"github.com/arrotech/codarena/internal/platform/logging"
	"github.com/arrotech/codarena/internal/usecase"
)

type acceptingGateway struct{}

func (acceptingGateway) STKPush(_ context.Context, _ daraja.STKPushRequest) (daraja.STKPushResponse, error) {
	return daraja.STKPushResponse{MerchantRequestID: "mr-test", CheckoutRequestID: "cr-test", ResponseCode: "0"}, nil
}

func newCallbackTestHandler(t *testing.T) (*Handler, *memory.PaymentRepository) {
	t.Helper()

	paymentRepo := memory.NewPaymentRepository()
	service := usecase.NewPaymentService(
		acceptingGateway{},
		paymentRepo,
		memory.NewCohortRepository(memory.SeedCohorts()),
		memory.NewGameModeRepository(memory.SeedGameModes()),
		memory.NewSquadRepository(nil),
		usecase.NoopNotifier(),
		id.NewRandomGenerator(),
		"254",
		nil,
	)

	return NewHandler(nil, nil, nil, service, nil, nil, nil, logging.NewNop()), paymentRepo
}

func seedPendingTransaction(t *testing.T, repo *memory.PaymentRepository) payment.Transaction {
	t.Helper()

	txn := payment.Transaction{
		ID:                "txn-1",
		MerchantRequestID: "mr-1",
		CheckoutRequestID: "cr-1",
		Amount:            100,
		PhoneNumber:       "254722000001",
		Status:            payment.StatusPending,
		UserID:            "user-wanjiru",
		CohortID:          memory.CohortIDSeasonFour,
		GameModeID:        memory.GameModeIDSolo,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), txn); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	return txn
}

func postCallback(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.PaymentCallback(rec, req)

	return rec
}

func decodeAck(t *testing.T, rec *httptest.ResponseRecorder) callbackAck {
	t.Helper()

	var ack callbackAck
	if err := sonic.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}

	return ack
}

func TestPaymentCallback_Processed(t *testing.T) {
	h, repo := newCallbackTestHandler(t)
	seedPendingTransaction(t, repo)

	rec := postCallback(t, h, `{"Body":{"stkCallback":{"MerchantRequestID":"mr-1","CheckoutRequestID":"cr-1","ResultCode":0,"ResultDesc":"The service request is processed successfully."}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ack := decodeAck(t, rec)
	if ack.Status != "processed" || ack.ResultCode != 0 {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	finalized, exists, err := repo.GetByRequestIDs(context.Background(), "mr-1", "cr-1")
	if err != nil || !exists {
		t.Fatalf("lookup finalized transaction: exists=%v err=%v", exists, err)
	}
	if finalized.Status != payment.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", finalized.Status)
	}
}

func TestPaymentCallback_FailureResultCode(t *testing.T) {
	h, repo := newCallbackTestHandler(t)
	seedPendingTransaction(t, repo)

	rec := postCallback(t, h, `{"Body":{"stkCallback":{"MerchantRequestID":"mr-1","CheckoutRequestID":"cr-1","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ack := decodeAck(t, rec); ack.Status != "processed" {
		t.Fatalf("expected processed ack, got %+v", ack)
	}

	finalized, _, err := repo.GetByRequestIDs(context.Background(), "mr-1", "cr-1")
	if err != nil {
		t.Fatalf("lookup finalized transaction: %v", err)
	}
	if finalized.Status != payment.StatusFailed {
		t.Fatalf("expected FAILED, got %s", finalized.Status)
	}
	if finalized.ResultCode == nil || *finalized.ResultCode != 1032 {
		t.Fatalf("expected result code 1032, got %v", finalized.ResultCode)
	}
}

func TestPaymentCallback_Duplicate(t *testing.T) {
	h, repo := newCallbackTestHandler(t)
	seedPendingTransaction(t, repo)

	body := `{"Body":{"stkCallback":{"MerchantRequestID":"mr-1","CheckoutRequestID":"cr-1","ResultCode":0,"ResultDesc":"ok"}}}`
	if rec := postCallback(t, h, body); rec.Code != http.StatusOK {
		t.Fatalf("first delivery: expected status 200, got %d", rec.Code)
	}

	rec := postCallback(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("redelivery: expected status 200, got %d", rec.Code)
	}
	if ack := decodeAck(t, rec); ack.Status != "already_processed" {
		t.Fatalf("expected already_processed ack, got %+v", ack)
	}
}

func TestPaymentCallback_UnknownTransaction(t *testing.T) {
	h, _ := newCallbackTestHandler(t)

	rec := postCallback(t, h, `{"Body":{"stkCallback":{"MerchantRequestID":"mr-none","CheckoutRequestID":"cr-none","ResultCode":0,"ResultDesc":"ok"}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ack := decodeAck(t, rec); ack.Status != "transaction_not_found" {
		t.Fatalf("expected transaction_not_found ack, got %+v", ack)
	}
}

func TestPaymentCallback_Malformed(t *testing.T) {
	h, _ := newCallbackTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"Body":`},
		{name: "missing ids", body: `{"Body":{"stkCallback":{"ResultCode":0,"ResultDesc":"ok"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postCallback(t, h, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if ack := decodeAck(t, rec); ack.Status != "malformed" || ack.ResultCode != 1 {
				t.Fatalf("expected malformed ack, got %+v", ack)
			}
		})
	}
}

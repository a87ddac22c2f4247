package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arrotech/codarena/external/daraja"
	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/domain/squad"
	idgen "github.com/arrotech/codarena/internal/platform/id"
	"github.com/arrotech/codarena/internal/platform/phone"
)

// PaymentGateway pushes a payment prompt to a subscriber's phone and
// returns the gateway-issued correlation identifiers.
type PaymentGateway interface {
	STKPush(ctx context.Context, input daraja.STKPushRequest) (daraja.STKPushResponse, error)
}

// InitiatePaymentInput starts an entry fee payment for one cohort entry.
// SquadID is empty for solo modes.
type InitiatePaymentInput struct {
	UserID      string
	CohortID    string
	GameModeID  string
	SquadID     string
	PhoneNumber string
}

// ReconcileInput is the gateway's asynchronous payment result, already
// unwrapped from the callback envelope.
type ReconcileInput struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDescription string
}

type PaymentService struct {
	gateway     PaymentGateway
	paymentRepo payment.Repository
	cohortRepo  cohort.Repository
	modeRepo    gamemode.Repository
	squadRepo   squad.Repository
	notifier    Notifier
	idGen       idgen.Generator
	countryCode string
	logger      *slog.Logger
	now         func() time.Time
}

func NewPaymentService(
	gateway PaymentGateway,
	paymentRepo payment.Repository,
	cohortRepo cohort.Repository,
	modeRepo gamemode.Repository,
	squadRepo squad.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	countryCode string,
	logger *slog.Logger,
) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier()
	}
	if strings.TrimSpace(countryCode) == "" {
		countryCode = "254"
	}

	return &PaymentService{
		gateway:     gateway,
		paymentRepo: paymentRepo,
		cohortRepo:  cohortRepo,
		modeRepo:    modeRepo,
		squadRepo:   squadRepo,
		notifier:    notifier,
		idGen:       idGen,
		countryCode: countryCode,
		logger:      logger,
		now:         time.Now,
	}
}

// Initiate pushes an entry fee prompt to the player's phone and records a
// PENDING ledger entry carrying the gateway correlation IDs. Nothing is
// recorded when the gateway rejects the push.
func (s *PaymentService) Initiate(ctx context.Context, input InitiatePaymentInput) (payment.Transaction, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.CohortID = strings.TrimSpace(input.CohortID)
	input.GameModeID = strings.TrimSpace(input.GameModeID)
	input.SquadID = strings.TrimSpace(input.SquadID)

	if input.UserID == "" {
		return payment.Transaction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.CohortID == "" {
		return payment.Transaction{}, fmt.Errorf("%w: cohort id is required", ErrInvalidInput)
	}
	if input.GameModeID == "" {
		return payment.Transaction{}, fmt.Errorf("%w: game mode id is required", ErrInvalidInput)
	}

	msisdn, err := phone.Normalize(input.PhoneNumber, s.countryCode)
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c, exists, err := s.cohortRepo.GetByID(ctx, input.CohortID)
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("get cohort: %w", err)
	}
	if !exists {
		return payment.Transaction{}, fmt.Errorf("%w: cohort=%s", ErrNotFound, input.CohortID)
	}
	if !c.IsOpenToJoin {
		return payment.Transaction{}, fmt.Errorf("%w: cohort=%s", cohort.ErrRegistrationClosed, input.CohortID)
	}

	mode, exists, err := s.modeRepo.GetByID(ctx, input.GameModeID)
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return payment.Transaction{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, input.GameModeID)
	}
	if mode.EntryFee < 1 {
		return payment.Transaction{}, fmt.Errorf("%w: game mode %s has no entry fee, join directly", ErrInvalidInput, mode.Name)
	}

	if input.SquadID != "" {
		sq, exists, err := s.squadRepo.GetByID(ctx, input.SquadID)
		if err != nil {
			return payment.Transaction{}, fmt.Errorf("get squad: %w", err)
		}
		if !exists {
			return payment.Transaction{}, fmt.Errorf("%w: squad=%s", ErrNotFound, input.SquadID)
		}
		if !sq.HasMember(input.UserID) {
			return payment.Transaction{}, fmt.Errorf("%w: not a member of squad=%s", ErrUnauthorized, input.SquadID)
		}
		if sq.GameModeID != input.GameModeID {
			return payment.Transaction{}, fmt.Errorf("%w: squad plays a different game mode", ErrInvalidInput)
		}
	}

	paid, err := s.paymentRepo.HasSuccessfulPayment(ctx, payment.SuccessQuery{
		UserID:     input.UserID,
		CohortID:   input.CohortID,
		GameModeID: input.GameModeID,
		SquadID:    input.SquadID,
	})
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("check existing payment: %w", err)
	}
	if paid {
		return payment.Transaction{}, fmt.Errorf("%w: entry fee already paid", ErrInvalidInput)
	}

	resp, err := s.gateway.STKPush(ctx, daraja.STKPushRequest{
		Amount:           mode.EntryFee,
		PhoneNumber:      msisdn,
		AccountReference: "GM" + mode.ID,
		Description:      mode.Name + " entry fee",
	})
	if err != nil {
		if errors.Is(err, daraja.ErrPushRejected) {
			return payment.Transaction{}, fmt.Errorf("%w: %v", payment.ErrGatewayRejected, err)
		}
		return payment.Transaction{}, fmt.Errorf("%w: stk push: %v", ErrDependencyUnavailable, err)
	}

	txnID, err := s.idGen.NewID()
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	now := s.now().UTC()
	txn := payment.Transaction{
		ID:                txnID,
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Amount:            mode.EntryFee,
		PhoneNumber:       msisdn,
		Status:            payment.StatusPending,
		UserID:            input.UserID,
		CohortID:          input.CohortID,
		GameModeID:        input.GameModeID,
		SquadID:           input.SquadID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := txn.Validate(); err != nil {
		return payment.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if err := s.paymentRepo.Create(ctx, txn); err != nil {
		return payment.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "payment initiated",
		"transaction_id", txn.ID,
		"user_id", input.UserID,
		"cohort_id", input.CohortID,
		"game_mode_id", input.GameModeID,
		"merchant_request_id", txn.MerchantRequestID,
		"checkout_request_id", txn.CheckoutRequestID,
		"amount", txn.Amount,
	)

	return txn, nil
}

// Reconcile applies one gateway payment result to the ledger. A result for
// an unknown ID pair returns ErrNotFound; a result for a transaction that
// already reached a terminal state returns payment.ErrAlreadyFinalized with
// no side effects, which also covers two callbacks racing each other.
func (s *PaymentService) Reconcile(ctx context.Context, input ReconcileInput) (payment.Transaction, error) {
	input.MerchantRequestID = strings.TrimSpace(input.MerchantRequestID)
	input.CheckoutRequestID = strings.TrimSpace(input.CheckoutRequestID)
	if input.MerchantRequestID == "" || input.CheckoutRequestID == "" {
		return payment.Transaction{}, fmt.Errorf("%w: merchant and checkout request ids are required", ErrInvalidInput)
	}

	txn, exists, err := s.paymentRepo.GetByRequestIDs(ctx, input.MerchantRequestID, input.CheckoutRequestID)
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("get transaction by request ids: %w", err)
	}
	if !exists {
		s.logger.WarnContext(ctx, "callback for unknown transaction",
			"merchant_request_id", input.MerchantRequestID,
			"checkout_request_id", input.CheckoutRequestID,
		)
		return payment.Transaction{}, fmt.Errorf("%w: no transaction for request id pair", ErrNotFound)
	}
	if txn.IsTerminal() {
		return txn, fmt.Errorf("%w: transaction=%s status=%s", payment.ErrAlreadyFinalized, txn.ID, txn.Status)
	}

	status := payment.StatusFailed
	if input.ResultCode == 0 {
		status = payment.StatusSuccess
	}

	finalized, err := s.paymentRepo.Finalize(ctx, txn.ID, status, input.ResultCode, input.ResultDescription)
	if err != nil {
		if errors.Is(err, payment.ErrAlreadyFinalized) {
			return txn, fmt.Errorf("%w: transaction=%s", payment.ErrAlreadyFinalized, txn.ID)
		}
		return payment.Transaction{}, fmt.Errorf("finalize transaction: %w", err)
	}

	if status == payment.StatusSuccess {
		if err := s.cohortRepo.AddParticipant(ctx, finalized.CohortID, finalized.UserID); err != nil {
			return payment.Transaction{}, fmt.Errorf("enroll participant: %w", err)
		}
		if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
			RecipientID: finalized.UserID,
			Type:        notification.TypeSystem,
			Message:     fmt.Sprintf("Payment of %d received, you are enrolled in the cohort.", finalized.Amount),
		}); err != nil {
			s.logger.ErrorContext(ctx, "payment notification failed",
				"transaction_id", finalized.ID,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "payment reconciled",
		"transaction_id", finalized.ID,
		"status", string(finalized.Status),
		"result_code", input.ResultCode,
	)

	return finalized, nil
}

func (s *PaymentService) ListMine(ctx context.Context, userID string) ([]payment.Transaction, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	txns, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txns, nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/domain/squad"
)

// MemberPaymentStatus is one roster member's entry fee state for a cohort.
type MemberPaymentStatus struct {
	UserID string
	Paid   bool
}

// ReadinessService derives whether a squad can enter a cohort: full roster
// and every member paid. Readiness is recomputed on every call, never
// stored.
type ReadinessService struct {
	squadRepo   squad.Repository
	modeRepo    gamemode.Repository
	paymentRepo payment.Repository
	logger      *slog.Logger
}

func NewReadinessService(
	squadRepo squad.Repository,
	modeRepo gamemode.Repository,
	paymentRepo payment.Repository,
	logger *slog.Logger,
) *ReadinessService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReadinessService{
		squadRepo:   squadRepo,
		modeRepo:    modeRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// IsReady short-circuits on roster size: an under- or over-filled squad is
// not ready and no ledger reads happen.
func (s *ReadinessService) IsReady(ctx context.Context, squadID, cohortID string) (bool, error) {
	sq, mode, err := s.resolve(ctx, squadID, cohortID)
	if err != nil {
		return false, err
	}

	if len(sq.MemberIDs) != mode.MaxPlayers {
		return false, nil
	}

	statuses, err := s.memberStatuses(ctx, sq, cohortID)
	if err != nil {
		return false, err
	}
	for _, st := range statuses {
		if !st.Paid {
			return false, nil
		}
	}

	return true, nil
}

// PaymentStatus reports every roster member's payment state in roster
// order.
func (s *ReadinessService) PaymentStatus(ctx context.Context, squadID, cohortID string) ([]MemberPaymentStatus, error) {
	sq, _, err := s.resolve(ctx, squadID, cohortID)
	if err != nil {
		return nil, err
	}

	return s.memberStatuses(ctx, sq, cohortID)
}

func (s *ReadinessService) resolve(ctx context.Context, squadID, cohortID string) (squad.Squad, gamemode.GameMode, error) {
	squadID = strings.TrimSpace(squadID)
	cohortID = strings.TrimSpace(cohortID)
	if squadID == "" || cohortID == "" {
		return squad.Squad{}, gamemode.GameMode{}, fmt.Errorf("%w: squad id and cohort id are required", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, squadID)
	if err != nil {
		return squad.Squad{}, gamemode.GameMode{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return squad.Squad{}, gamemode.GameMode{}, fmt.Errorf("%w: squad=%s", ErrNotFound, squadID)
	}

	mode, exists, err := s.modeRepo.GetByID(ctx, sq.GameModeID)
	if err != nil {
		return squad.Squad{}, gamemode.GameMode{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return squad.Squad{}, gamemode.GameMode{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, sq.GameModeID)
	}

	return sq, mode, nil
}

// memberStatuses checks members concurrently; iter keeps result order
// aligned with the roster.
func (s *ReadinessService) memberStatuses(ctx context.Context, sq squad.Squad, cohortID string) ([]MemberPaymentStatus, error) {
	statuses, err := iter.MapErr(sq.MemberIDs, func(memberID *string) (MemberPaymentStatus, error) {
		paid, err := s.paymentRepo.HasSuccessfulPayment(ctx, payment.SuccessQuery{
			UserID:     *memberID,
			CohortID:   cohortID,
			GameModeID: sq.GameModeID,
			SquadID:    sq.ID,
		})
		if err != nil {
			return MemberPaymentStatus{}, fmt.Errorf("check payment for user=%s: %w", *memberID, err)
		}
		return MemberPaymentStatus{UserID: *memberID, Paid: paid}, nil
	})
	if err != nil {
		return nil, err
	}

	return statuses, nil
}

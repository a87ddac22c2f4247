package usecase

import (
	"testing"
	"time"

	"github.com/arrotech/codarena/internal/domain/payment"
	"github.com/arrotech/codarena/internal/domain/squad"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
)

func newReadinessFixture(t *testing.T, memberIDs []string) (*ReadinessService, *memory.PaymentRepository) {
	t.Helper()

	squadRepo := memory.NewSquadRepository([]squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: memberIDs[0], GameModeID: memory.GameModeIDDuo, MemberIDs: memberIDs},
	})
	modeRepo := memory.NewGameModeRepository(memory.SeedGameModes())
	paymentRepo := memory.NewPaymentRepository()

	return NewReadinessService(squadRepo, modeRepo, paymentRepo, discardLogger()), paymentRepo
}

func recordSuccess(t *testing.T, repo *memory.PaymentRepository, userID string) {
	t.Helper()

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	err := repo.Create(t.Context(), payment.Transaction{
		ID:                "txn-" + userID,
		MerchantRequestID: "mr-" + userID,
		CheckoutRequestID: "cr-" + userID,
		Amount:            150,
		Status:            payment.StatusSuccess,
		UserID:            userID,
		CohortID:          memory.CohortIDSeasonFour,
		GameModeID:        memory.GameModeIDDuo,
		SquadID:           "squad-1",
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestReadinessService_IsReady_ShortCircuitsOnPartialRoster(t *testing.T) {
	service, paymentRepo := newReadinessFixture(t, []string{"user-wanjiru"})
	recordSuccess(t, paymentRepo, "user-wanjiru")

	ready, err := service.IsReady(t.Context(), "squad-1", memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("is ready failed: %v", err)
	}
	if ready {
		t.Fatal("expected not ready with one of two roster slots filled")
	}
}

func TestReadinessService_IsReady_UnpaidMember(t *testing.T) {
	service, paymentRepo := newReadinessFixture(t, []string{"user-wanjiru", "user-otieno"})
	recordSuccess(t, paymentRepo, "user-wanjiru")

	ready, err := service.IsReady(t.Context(), "squad-1", memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("is ready failed: %v", err)
	}
	if ready {
		t.Fatal("expected not ready with an unpaid member")
	}
}

func TestReadinessService_IsReady_FullRosterAllPaid(t *testing.T) {
	service, paymentRepo := newReadinessFixture(t, []string{"user-wanjiru", "user-otieno"})
	recordSuccess(t, paymentRepo, "user-wanjiru")
	recordSuccess(t, paymentRepo, "user-otieno")

	ready, err := service.IsReady(t.Context(), "squad-1", memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("is ready failed: %v", err)
	}
	if !ready {
		t.Fatal("expected ready with full roster and all members paid")
	}
}

func TestReadinessService_PaymentStatus_KeepsRosterOrder(t *testing.T) {
	service, paymentRepo := newReadinessFixture(t, []string{"user-wanjiru", "user-otieno"})
	recordSuccess(t, paymentRepo, "user-otieno")

	statuses, err := service.PaymentStatus(t.Context(), "squad-1", memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("payment status failed: %v", err)
	}

	if len(statuses) != 2 {
		t.Fatalf("expected two statuses, got %d", len(statuses))
	}
	if statuses[0].UserID != "user-wanjiru" || statuses[0].Paid {
		t.Fatalf("expected first entry unpaid captain, got %+v", statuses[0])
	}
	if statuses[1].UserID != "user-otieno" || !statuses[1].Paid {
		t.Fatalf("expected second entry paid member, got %+v", statuses[1])
	}
}

func TestReadinessService_IsReady_UnknownSquad(t *testing.T) {
	service, _ := newReadinessFixture(t, []string{"user-wanjiru"})

	_, err := service.IsReady(t.Context(), "squad-missing", memory.CohortIDSeasonFour)
	if err == nil {
		t.Fatal("expected error for unknown squad")
	}
}

// Payments scoped to a different squad or game mode must not count.
func TestReadinessService_IsReady_PaymentScopeIsExact(t *testing.T) {
	service, paymentRepo := newReadinessFixture(t, []string{"user-wanjiru", "user-otieno"})
	recordSuccess(t, paymentRepo, "user-wanjiru")

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if err := paymentRepo.Create(t.Context(), payment.Transaction{
		ID:                "txn-other-squad",
		MerchantRequestID: "mr-x",
		CheckoutRequestID: "cr-x",
		Amount:            150,
		Status:            payment.StatusSuccess,
		UserID:            "user-otieno",
		CohortID:          memory.CohortIDSeasonFour,
		GameModeID:        memory.GameModeIDDuo,
		SquadID:           "squad-other",
		CreatedAt:         now,
		UpdatedAt:         now,
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	ready, err := service.IsReady(t.Context(), "squad-1", memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("is ready failed: %v", err)
	}
	if ready {
		t.Fatal("expected payment for another squad not to count")
	}
}

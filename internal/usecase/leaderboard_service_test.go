package usecase

import (
	"errors"
	"testing"

	"github.com/arrotech/codarena/internal/domain/stats"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
)

func newLeaderboardFixture(t *testing.T) (*LeaderboardService, *memory.CohortRepository, *memory.NotificationRepository) {
	t.Helper()

	userRepo := memory.NewUserRepository(memory.SeedUsers())
	cohortRepo := memory.NewCohortRepository(memory.SeedCohorts())
	notifRepo := memory.NewNotificationRepository()

	service := NewLeaderboardService(
		memory.NewStatsRepository(userRepo),
		userRepo,
		cohortRepo,
		newTestNotifier(t, notifRepo),
		&seqIDGenerator{prefix: "st"},
		discardLogger(),
	)

	return service, cohortRepo, notifRepo
}

func TestLeaderboardService_RecordRoundStats_StaffOnly(t *testing.T) {
	service, _, _ := newLeaderboardFixture(t)

	_, err := service.RecordRoundStats(t.Context(), RecordRoundStatsInput{
		ActorID:  "user-wanjiru",
		UserID:   "user-otieno",
		CohortID: memory.CohortIDSeasonFour,
		RoundRef: "round-1",
		Kills:    5,
		XP:       120,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-staff, got %v", err)
	}
}

func TestLeaderboardService_RecordRoundStats_UpsertsAndNotifies(t *testing.T) {
	service, _, notifRepo := newLeaderboardFixture(t)

	input := RecordRoundStatsInput{
		ActorID:  "user-admin",
		UserID:   "user-otieno",
		CohortID: memory.CohortIDSeasonFour,
		RoundRef: "round-1",
		Kills:    5,
		Deaths:   2,
		Damage:   900,
		XP:       120,
	}
	if _, err := service.RecordRoundStats(t.Context(), input); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// Correcting the scoreline for the same round replaces the entry.
	input.Kills = 7
	input.XP = 150
	if _, err := service.RecordRoundStats(t.Context(), input); err != nil {
		t.Fatalf("re-record failed: %v", err)
	}

	rows, err := service.Leaderboard(t.Context(), stats.LeaderboardFilter{CohortID: memory.CohortIDSeasonFour})
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Kills != 7 || rows[0].XP != 150 || rows[0].Matches != 1 {
		t.Fatalf("expected upserted totals, got %+v", rows[0])
	}

	notifications, _ := notifRepo.ListByRecipient(t.Context(), "user-otieno")
	if len(notifications) != 2 {
		t.Fatalf("expected a notification per recording, got %d", len(notifications))
	}
}

func TestLeaderboardService_Leaderboard_OrdersByXPThenKills(t *testing.T) {
	service, _, _ := newLeaderboardFixture(t)

	entries := []RecordRoundStatsInput{
		{ActorID: "user-admin", UserID: "user-otieno", CohortID: memory.CohortIDSeasonFour, RoundRef: "round-1", Kills: 4, XP: 100},
		{ActorID: "user-admin", UserID: "user-mutua", CohortID: memory.CohortIDSeasonFour, RoundRef: "round-1", Kills: 9, XP: 100},
		{ActorID: "user-admin", UserID: "user-chebet", CohortID: memory.CohortIDSeasonFour, RoundRef: "round-1", Kills: 2, XP: 180},
	}
	for _, e := range entries {
		if _, err := service.RecordRoundStats(t.Context(), e); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	rows, err := service.Leaderboard(t.Context(), stats.LeaderboardFilter{CohortID: memory.CohortIDSeasonFour})
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected three rows, got %d", len(rows))
	}
	if rows[0].UserID != "user-chebet" {
		t.Fatalf("expected highest XP first, got %s", rows[0].UserID)
	}
	if rows[1].UserID != "user-mutua" {
		t.Fatalf("expected kills tiebreak, got %s", rows[1].UserID)
	}
}

func TestLeaderboardService_PublishRoundResults_BroadcastsToParticipants(t *testing.T) {
	service, cohortRepo, notifRepo := newLeaderboardFixture(t)

	for _, userID := range []string{"user-otieno", "user-mutua"} {
		if err := cohortRepo.AddParticipant(t.Context(), memory.CohortIDSeasonFour, userID); err != nil {
			t.Fatalf("seed participant: %v", err)
		}
	}

	err := service.PublishRoundResults(t.Context(), PublishRoundResultsInput{
		ActorID:  "user-admin",
		CohortID: memory.CohortIDSeasonFour,
		RoundRef: "round-1",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for _, userID := range []string{"user-otieno", "user-mutua"} {
		notifications, _ := notifRepo.ListByRecipient(t.Context(), userID)
		if len(notifications) != 1 {
			t.Fatalf("expected broadcast notification for %s, got %d", userID, len(notifications))
		}
	}
}

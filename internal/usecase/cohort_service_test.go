package usecase

import (
	"errors"
	"testing"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
)

func newCohortFixture(t *testing.T) (*CohortService, *memory.CohortRepository) {
	t.Helper()

	cohortRepo := memory.NewCohortRepository(memory.SeedCohorts())
	service := NewCohortService(cohortRepo, memory.NewGameModeRepository(memory.SeedGameModes()), discardLogger())

	return service, cohortRepo
}

func TestCohortService_ListOpen_OnlyOpenCohorts(t *testing.T) {
	service, _ := newCohortFixture(t)

	cohorts, err := service.ListOpen(t.Context())
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}

	if len(cohorts) != 1 {
		t.Fatalf("expected one open cohort, got %d", len(cohorts))
	}
	if cohorts[0].ID != memory.CohortIDSeasonFour {
		t.Fatalf("unexpected cohort: %s", cohorts[0].ID)
	}
}

func TestCohortService_Join_ClosedCohort(t *testing.T) {
	service, _ := newCohortFixture(t)

	err := service.Join(t.Context(), "user-wanjiru", memory.CohortIDSeasonFive)
	if !errors.Is(err, cohort.ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestCohortService_Join_Idempotent(t *testing.T) {
	service, cohortRepo := newCohortFixture(t)

	for i := 0; i < 2; i++ {
		if err := service.Join(t.Context(), "user-wanjiru", memory.CohortIDSeasonFour); err != nil {
			t.Fatalf("join attempt %d failed: %v", i+1, err)
		}
	}

	participants, err := cohortRepo.ListParticipants(t.Context(), memory.CohortIDSeasonFour)
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(participants) != 1 {
		t.Fatalf("expected one participant after double join, got %d", len(participants))
	}
}

func TestCohortService_Join_UnknownCohort(t *testing.T) {
	service, _ := newCohortFixture(t)

	err := service.Join(t.Context(), "user-wanjiru", "cohort-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

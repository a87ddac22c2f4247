package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	cohortmock "github.com/arrotech/codarena/internal/mocks/domain/cohort"
	gamemodemock "github.com/arrotech/codarena/internal/mocks/domain/gamemode"
)

func TestCohortService_ListGameModes_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cohortRepo := cohortmock.NewRepository(t)
	modeRepo := gamemodemock.NewRepository(t)

	service := NewCohortService(cohortRepo, modeRepo, nil)
	expectedModes := []gamemode.GameMode{
		{ID: "gm-solo", Name: "Solo", EntryFee: 100, MaxPlayers: 1},
		{ID: "gm-squad", Name: "Squad", EntryFee: 250, MaxPlayers: 4},
	}

	modeRepo.
		On("List", mock.Anything).
		Return(expectedModes, nil).
		Once()

	got, err := service.ListGameModes(ctx)
	if err != nil {
		t.Fatalf("list game modes: %v", err)
	}
	if len(got) != len(expectedModes) {
		t.Fatalf("unexpected mode count: got=%d want=%d", len(got), len(expectedModes))
	}
	if got[0].ID != expectedModes[0].ID {
		t.Fatalf("unexpected mode id: got=%s want=%s", got[0].ID, expectedModes[0].ID)
	}
}

func TestCohortService_Join_ClosedCohortUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cohortRepo := cohortmock.NewRepository(t)
	modeRepo := gamemodemock.NewRepository(t)

	service := NewCohortService(cohortRepo, modeRepo, nil)
	cohortID := "cohort-s5-2026"

	cohortRepo.
		On("GetByID", mock.Anything, cohortID).
		Return(cohort.Cohort{ID: cohortID, IsOpenToJoin: false}, true, nil).
		Once()

	err := service.Join(ctx, "user-1", cohortID)
	if !errors.Is(err, cohort.ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestCohortService_Join_RepositoryFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cohortRepo := cohortmock.NewRepository(t)
	modeRepo := gamemodemock.NewRepository(t)

	service := NewCohortService(cohortRepo, modeRepo, nil)
	cohortID := "cohort-s4-2026"
	repoErr := errors.New("connection reset")

	cohortRepo.
		On("GetByID", mock.Anything, cohortID).
		Return(cohort.Cohort{ID: cohortID, IsOpenToJoin: true}, true, nil).
		Once()
	cohortRepo.
		On("AddParticipant", mock.Anything, cohortID, "user-1").
		Return(repoErr).
		Once()

	err := service.Join(ctx, "user-1", cohortID)
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

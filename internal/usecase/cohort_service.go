package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
)

type CohortService struct {
	cohortRepo cohort.Repository
	modeRepo   gamemode.Repository
	logger     *slog.Logger
}

func NewCohortService(cohortRepo cohort.Repository, modeRepo gamemode.Repository, logger *slog.Logger) *CohortService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CohortService{
		cohortRepo: cohortRepo,
		modeRepo:   modeRepo,
		logger:     logger,
	}
}

func (s *CohortService) ListOpen(ctx context.Context) ([]cohort.Cohort, error) {
	cohorts, err := s.cohortRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open cohorts: %w", err)
	}

	return cohorts, nil
}

func (s *CohortService) ListGameModes(ctx context.Context) ([]gamemode.GameMode, error) {
	modes, err := s.modeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list game modes: %w", err)
	}

	return modes, nil
}

func (s *CohortService) GetGameMode(ctx context.Context, modeID string) (gamemode.GameMode, error) {
	modeID = strings.TrimSpace(modeID)
	if modeID == "" {
		return gamemode.GameMode{}, fmt.Errorf("%w: game mode id is required", ErrInvalidInput)
	}

	mode, exists, err := s.modeRepo.GetByID(ctx, modeID)
	if err != nil {
		return gamemode.GameMode{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return gamemode.GameMode{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, modeID)
	}

	return mode, nil
}

// Join enrolls the actor directly into an open cohort. Enrollment has set
// semantics, so joining twice is a no-op.
func (s *CohortService) Join(ctx context.Context, actorID, cohortID string) error {
	actorID = strings.TrimSpace(actorID)
	cohortID = strings.TrimSpace(cohortID)
	if actorID == "" || cohortID == "" {
		return fmt.Errorf("%w: actor id and cohort id are required", ErrInvalidInput)
	}

	c, exists, err := s.cohortRepo.GetByID(ctx, cohortID)
	if err != nil {
		return fmt.Errorf("get cohort: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: cohort=%s", ErrNotFound, cohortID)
	}
	if !c.IsOpenToJoin {
		return fmt.Errorf("%w: cohort=%s", cohort.ErrRegistrationClosed, cohortID)
	}

	if err := s.cohortRepo.AddParticipant(ctx, cohortID, actorID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}

	s.logger.InfoContext(ctx, "cohort joined", "cohort_id", cohortID, "user_id", actorID)
	return nil
}

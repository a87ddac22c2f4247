package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/domain/stats"
	"github.com/arrotech/codarena/internal/domain/user"
	idgen "github.com/arrotech/codarena/internal/platform/id"
)

// RecordRoundStatsInput is one player's scoreline for one round, recorded
// by staff.
type RecordRoundStatsInput struct {
	ActorID    string
	UserID     string
	CohortID   string
	GameModeID string
	RoundRef   string
	Rank       int
	Kills      int
	Deaths     int
	Damage     int
	XP         int
}

type PublishRoundResultsInput struct {
	ActorID  string
	CohortID string
	RoundRef string
	Message  string
}

type LeaderboardService struct {
	statsRepo  stats.Repository
	userRepo   user.Repository
	cohortRepo cohort.Repository
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewLeaderboardService(
	statsRepo stats.Repository,
	userRepo user.Repository,
	cohortRepo cohort.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier()
	}

	return &LeaderboardService{
		statsRepo:  statsRepo,
		userRepo:   userRepo,
		cohortRepo: cohortRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordRoundStats upserts one player's round scoreline, keyed on
// (player, cohort, round ref), and notifies the player. Staff only.
func (s *LeaderboardService) RecordRoundStats(ctx context.Context, input RecordRoundStatsInput) (stats.PlayerRoundStats, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.CohortID = strings.TrimSpace(input.CohortID)
	input.RoundRef = strings.TrimSpace(input.RoundRef)

	if input.ActorID == "" {
		return stats.PlayerRoundStats{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return stats.PlayerRoundStats{}, err
	}

	player, exists, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return stats.PlayerRoundStats{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return stats.PlayerRoundStats{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return stats.PlayerRoundStats{}, fmt.Errorf("generate stats id: %w", err)
	}

	now := s.now().UTC()
	entry := stats.PlayerRoundStats{
		ID:         entryID,
		UserID:     player.ID,
		CohortID:   input.CohortID,
		GameModeID: input.GameModeID,
		RoundRef:   input.RoundRef,
		Rank:       input.Rank,
		Kills:      input.Kills,
		Deaths:     input.Deaths,
		Damage:     input.Damage,
		XP:         input.XP,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := entry.Validate(); err != nil {
		return stats.PlayerRoundStats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	recorded, err := s.statsRepo.Upsert(ctx, entry)
	if err != nil {
		return stats.PlayerRoundStats{}, fmt.Errorf("upsert round stats: %w", err)
	}

	if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
		RecipientID: player.ID,
		ActorID:     input.ActorID,
		Type:        notification.TypeResult,
		Message:     fmt.Sprintf("Your results for round %s are in: %d kills, %d XP.", input.RoundRef, input.Kills, input.XP),
	}); err != nil {
		s.logger.ErrorContext(ctx, "round stats notification failed", "stats_id", recorded.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "round stats recorded",
		"stats_id", recorded.ID,
		"user_id", player.ID,
		"cohort_id", input.CohortID,
		"round_ref", input.RoundRef,
	)

	return recorded, nil
}

// PublishRoundResults announces a round's results to every cohort
// participant through the broadcast pool. Staff only.
func (s *LeaderboardService) PublishRoundResults(ctx context.Context, input PublishRoundResultsInput) error {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.CohortID = strings.TrimSpace(input.CohortID)
	input.RoundRef = strings.TrimSpace(input.RoundRef)
	input.Message = strings.TrimSpace(input.Message)

	if input.ActorID == "" || input.CohortID == "" || input.RoundRef == "" {
		return fmt.Errorf("%w: actor id, cohort id and round ref are required", ErrInvalidInput)
	}

	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return err
	}

	_, exists, err := s.cohortRepo.GetByID(ctx, input.CohortID)
	if err != nil {
		return fmt.Errorf("get cohort: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: cohort=%s", ErrNotFound, input.CohortID)
	}

	participants, err := s.cohortRepo.ListParticipants(ctx, input.CohortID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}

	message := input.Message
	if message == "" {
		message = fmt.Sprintf("Results for round %s have been published.", input.RoundRef)
	}

	if err := s.notifier.Broadcast(ctx, participants, EmitNotificationInput{
		ActorID: input.ActorID,
		Type:    notification.TypeResult,
		Message: message,
	}); err != nil {
		return fmt.Errorf("broadcast round results: %w", err)
	}

	s.logger.InfoContext(ctx, "round results published",
		"cohort_id", input.CohortID,
		"round_ref", input.RoundRef,
		"participant_count", len(participants),
	)

	return nil
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, filter stats.LeaderboardFilter) ([]stats.LeaderboardRow, error) {
	filter.CohortID = strings.TrimSpace(filter.CohortID)
	filter.GameModeID = strings.TrimSpace(filter.GameModeID)
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 100
	}

	rows, err := s.statsRepo.Leaderboard(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return rows, nil
}

func (s *LeaderboardService) requireStaff(ctx context.Context, actorID string) error {
	actor, exists, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("get actor: %w", err)
	}
	if !exists || !actor.IsStaff {
		return fmt.Errorf("%w: staff access required", ErrUnauthorized)
	}

	return nil
}

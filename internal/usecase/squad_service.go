package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/domain/squad"
	"github.com/arrotech/codarena/internal/domain/user"
	idgen "github.com/arrotech/codarena/internal/platform/id"
)

type CreateSquadInput struct {
	CaptainID  string
	Name       string
	GameModeID string
}

type InviteInput struct {
	ActorID  string
	SquadID  string
	GamerTag string
}

type RespondInviteInput struct {
	ActorID  string
	InviteID string
	Accept   bool
}

type SquadService struct {
	squadRepo  squad.Repository
	modeRepo   gamemode.Repository
	userRepo   user.Repository
	inviteRepo recruitment.InviteRepository
	notifier   Notifier
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewSquadService(
	squadRepo squad.Repository,
	modeRepo gamemode.Repository,
	userRepo user.Repository,
	inviteRepo recruitment.InviteRepository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *SquadService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier()
	}

	return &SquadService{
		squadRepo:  squadRepo,
		modeRepo:   modeRepo,
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Create makes a new squad with the actor as captain and sole roster
// member.
func (s *SquadService) Create(ctx context.Context, input CreateSquadInput) (squad.Squad, error) {
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.Name = strings.TrimSpace(input.Name)
	input.GameModeID = strings.TrimSpace(input.GameModeID)

	if input.CaptainID == "" {
		return squad.Squad{}, fmt.Errorf("%w: captain id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return squad.Squad{}, fmt.Errorf("%w: squad name is required", ErrInvalidInput)
	}
	if input.GameModeID == "" {
		return squad.Squad{}, fmt.Errorf("%w: game mode id is required", ErrInvalidInput)
	}

	_, exists, err := s.modeRepo.GetByID(ctx, input.GameModeID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return squad.Squad{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, input.GameModeID)
	}

	squadID, err := s.idGen.NewID()
	if err != nil {
		return squad.Squad{}, fmt.Errorf("generate squad id: %w", err)
	}

	sq := squad.Squad{
		ID:         squadID,
		Name:       input.Name,
		CaptainID:  input.CaptainID,
		GameModeID: input.GameModeID,
		MemberIDs:  []string{input.CaptainID},
	}
	if err := sq.Validate(); err != nil {
		return squad.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.squadRepo.Create(ctx, sq); err != nil {
		return squad.Squad{}, fmt.Errorf("create squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad created",
		"squad_id", sq.ID,
		"captain_id", sq.CaptainID,
		"game_mode_id", sq.GameModeID,
	)

	return sq, nil
}

// Invite offers a roster slot to a player by gamer tag. A pending invite
// reserves a slot, so capacity counts roster plus outstanding invites.
// Re-inviting the same player is idempotent and returns the existing
// invite without another notification.
func (s *SquadService) Invite(ctx context.Context, input InviteInput) (recruitment.Invite, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.SquadID = strings.TrimSpace(input.SquadID)
	input.GamerTag = strings.TrimSpace(input.GamerTag)

	if input.ActorID == "" {
		return recruitment.Invite{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if input.SquadID == "" {
		return recruitment.Invite{}, fmt.Errorf("%w: squad id is required", ErrInvalidInput)
	}
	if input.GamerTag == "" {
		return recruitment.Invite{}, fmt.Errorf("%w: gamer tag is required", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, input.SquadID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: squad=%s", ErrNotFound, input.SquadID)
	}
	if sq.CaptainID != input.ActorID {
		return recruitment.Invite{}, fmt.Errorf("%w: only the captain can invite", ErrUnauthorized)
	}

	invitee, exists, err := s.userRepo.GetByGamerTag(ctx, input.GamerTag)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get user by gamer tag: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: no player with gamer tag %s", ErrNotFound, input.GamerTag)
	}
	if sq.HasMember(invitee.ID) {
		return recruitment.Invite{}, fmt.Errorf("%w: %s", squad.ErrAlreadyMember, input.GamerTag)
	}

	mode, exists, err := s.modeRepo.GetByID(ctx, sq.GameModeID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, sq.GameModeID)
	}

	pending, err := s.inviteRepo.CountPendingBySquad(ctx, sq.ID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("count pending invites: %w", err)
	}
	if len(sq.MemberIDs)+pending >= mode.MaxPlayers {
		return recruitment.Invite{}, fmt.Errorf("%w: roster and pending invites fill all %d slots", squad.ErrCapacityExceeded, mode.MaxPlayers)
	}

	inviteID, err := s.idGen.NewID()
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("generate invite id: %w", err)
	}

	inv := recruitment.Invite{
		ID:        inviteID,
		SquadID:   sq.ID,
		InviterID: input.ActorID,
		InviteeID: invitee.ID,
		Status:    recruitment.InviteStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := inv.Validate(); err != nil {
		return recruitment.Invite{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.inviteRepo.CreatePending(ctx, inv)
	if err != nil {
		if errors.Is(err, recruitment.ErrDuplicatePending) {
			return created, nil
		}
		return recruitment.Invite{}, fmt.Errorf("create invite: %w", err)
	}

	if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
		RecipientID: invitee.ID,
		ActorID:     input.ActorID,
		Type:        notification.TypeInvite,
		Message:     fmt.Sprintf("You have been invited to join squad %s.", sq.Name),
	}); err != nil {
		s.logger.ErrorContext(ctx, "invite notification failed", "invite_id", created.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "invite created",
		"invite_id", created.ID,
		"squad_id", sq.ID,
		"invitee_id", invitee.ID,
	)

	return created, nil
}

// RespondInvite lets the invitee accept or decline. Accepting adds the
// invitee to the roster through the capacity-guarded repository add.
func (s *SquadService) RespondInvite(ctx context.Context, input RespondInviteInput) (recruitment.Invite, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.InviteID = strings.TrimSpace(input.InviteID)

	if input.ActorID == "" || input.InviteID == "" {
		return recruitment.Invite{}, fmt.Errorf("%w: actor id and invite id are required", ErrInvalidInput)
	}

	inv, exists, err := s.inviteRepo.GetByID(ctx, input.InviteID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get invite: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: invite=%s", ErrNotFound, input.InviteID)
	}
	if inv.InviteeID != input.ActorID {
		return recruitment.Invite{}, fmt.Errorf("%w: invite belongs to another player", ErrUnauthorized)
	}

	status := recruitment.InviteStatusDeclined
	if input.Accept {
		status = recruitment.InviteStatusAccepted
	}

	decided, err := s.inviteRepo.Decide(ctx, inv.ID, status)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("decide invite: %w", err)
	}

	if !input.Accept {
		return decided, nil
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, inv.SquadID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: squad=%s", ErrNotFound, inv.SquadID)
	}

	mode, exists, err := s.modeRepo.GetByID(ctx, sq.GameModeID)
	if err != nil {
		return recruitment.Invite{}, fmt.Errorf("get game mode: %w", err)
	}
	if !exists {
		return recruitment.Invite{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, sq.GameModeID)
	}

	if err := s.squadRepo.AddMember(ctx, sq.ID, inv.InviteeID, mode.MaxPlayers); err != nil {
		return recruitment.Invite{}, fmt.Errorf("add member: %w", err)
	}

	if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
		RecipientID: sq.CaptainID,
		ActorID:     inv.InviteeID,
		Type:        notification.TypeSystem,
		Message:     fmt.Sprintf("Your invite to squad %s was accepted.", sq.Name),
	}); err != nil {
		s.logger.ErrorContext(ctx, "invite response notification failed", "invite_id", inv.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "invite accepted",
		"invite_id", inv.ID,
		"squad_id", sq.ID,
		"invitee_id", inv.InviteeID,
	)

	return decided, nil
}

func (s *SquadService) Get(ctx context.Context, squadID string) (squad.Squad, error) {
	squadID = strings.TrimSpace(squadID)
	if squadID == "" {
		return squad.Squad{}, fmt.Errorf("%w: squad id is required", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, squadID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return squad.Squad{}, fmt.Errorf("%w: squad=%s", ErrNotFound, squadID)
	}

	return sq, nil
}

func (s *SquadService) ListMine(ctx context.Context, userID string) ([]squad.Squad, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	squads, err := s.squadRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}

	return squads, nil
}

// MyInvites lists the actor's pending invites.
func (s *SquadService) MyInvites(ctx context.Context, userID string) ([]recruitment.Invite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	invites, err := s.inviteRepo.ListPendingByInvitee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}

	return invites, nil
}

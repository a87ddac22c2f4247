package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/domain/squad"
	idgen "github.com/arrotech/codarena/internal/platform/id"
)

type CreatePostInput struct {
	ActorID      string
	SquadID      string
	SlotsOpen    int
	Requirements string
}

type RegisterFreeAgentInput struct {
	ActorID     string
	GameModeIDs []string
	Message     string
}

type ApplyInput struct {
	ActorID string
	PostID  string
	Message string
}

type DecideRequestInput struct {
	ActorID   string
	RequestID string
	Approve   bool
}

// RecruitmentService runs the public recruitment board: squads advertising
// open slots, players advertising availability, and join requests flowing
// between them.
type RecruitmentService struct {
	boardRepo recruitment.BoardRepository
	joinRepo  recruitment.JoinRequestRepository
	squadRepo squad.Repository
	modeRepo  gamemode.Repository
	notifier  Notifier
	idGen     idgen.Generator
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecruitmentService(
	boardRepo recruitment.BoardRepository,
	joinRepo recruitment.JoinRequestRepository,
	squadRepo squad.Repository,
	modeRepo gamemode.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RecruitmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier()
	}

	return &RecruitmentService{
		boardRepo: boardRepo,
		joinRepo:  joinRepo,
		squadRepo: squadRepo,
		modeRepo:  modeRepo,
		notifier:  notifier,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *RecruitmentService) CreatePost(ctx context.Context, input CreatePostInput) (recruitment.Post, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.SquadID = strings.TrimSpace(input.SquadID)
	input.Requirements = strings.TrimSpace(input.Requirements)

	if input.ActorID == "" || input.SquadID == "" {
		return recruitment.Post{}, fmt.Errorf("%w: actor id and squad id are required", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, input.SquadID)
	if err != nil {
		return recruitment.Post{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return recruitment.Post{}, fmt.Errorf("%w: squad=%s", ErrNotFound, input.SquadID)
	}
	if sq.CaptainID != input.ActorID {
		return recruitment.Post{}, fmt.Errorf("%w: only the captain can post recruitment", ErrUnauthorized)
	}

	postID, err := s.idGen.NewID()
	if err != nil {
		return recruitment.Post{}, fmt.Errorf("generate post id: %w", err)
	}

	now := s.now().UTC()
	post := recruitment.Post{
		ID:           postID,
		SquadID:      sq.ID,
		SlotsOpen:    input.SlotsOpen,
		Requirements: input.Requirements,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := post.Validate(); err != nil {
		return recruitment.Post{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.boardRepo.CreatePost(ctx, post); err != nil {
		return recruitment.Post{}, fmt.Errorf("create post: %w", err)
	}

	s.logger.InfoContext(ctx, "recruitment post created", "post_id", post.ID, "squad_id", sq.ID)
	return post, nil
}

func (s *RecruitmentService) DeactivatePost(ctx context.Context, actorID, postID string) error {
	actorID = strings.TrimSpace(actorID)
	postID = strings.TrimSpace(postID)
	if actorID == "" || postID == "" {
		return fmt.Errorf("%w: actor id and post id are required", ErrInvalidInput)
	}

	post, exists, err := s.boardRepo.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: post=%s", ErrNotFound, postID)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, post.SquadID)
	if err != nil {
		return fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: squad=%s", ErrNotFound, post.SquadID)
	}
	if sq.CaptainID != actorID {
		return fmt.Errorf("%w: only the captain can deactivate the post", ErrUnauthorized)
	}

	if err := s.boardRepo.DeactivatePost(ctx, postID); err != nil {
		return fmt.Errorf("deactivate post: %w", err)
	}

	return nil
}

func (s *RecruitmentService) ListPosts(ctx context.Context) ([]recruitment.Post, error) {
	posts, err := s.boardRepo.ListActivePosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

func (s *RecruitmentService) RegisterFreeAgent(ctx context.Context, input RegisterFreeAgentInput) (recruitment.FreeAgent, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.Message = strings.TrimSpace(input.Message)

	if input.ActorID == "" {
		return recruitment.FreeAgent{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	for _, modeID := range input.GameModeIDs {
		_, exists, err := s.modeRepo.GetByID(ctx, strings.TrimSpace(modeID))
		if err != nil {
			return recruitment.FreeAgent{}, fmt.Errorf("get game mode: %w", err)
		}
		if !exists {
			return recruitment.FreeAgent{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, modeID)
		}
	}

	listingID, err := s.idGen.NewID()
	if err != nil {
		return recruitment.FreeAgent{}, fmt.Errorf("generate listing id: %w", err)
	}

	now := s.now().UTC()
	agent := recruitment.FreeAgent{
		ID:          listingID,
		UserID:      input.ActorID,
		GameModeIDs: input.GameModeIDs,
		Message:     input.Message,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := agent.Validate(); err != nil {
		return recruitment.FreeAgent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.boardRepo.CreateFreeAgent(ctx, agent); err != nil {
		return recruitment.FreeAgent{}, fmt.Errorf("create free agent listing: %w", err)
	}

	return agent, nil
}

func (s *RecruitmentService) DeactivateFreeAgent(ctx context.Context, actorID, listingID string) error {
	actorID = strings.TrimSpace(actorID)
	listingID = strings.TrimSpace(listingID)
	if actorID == "" || listingID == "" {
		return fmt.Errorf("%w: actor id and listing id are required", ErrInvalidInput)
	}

	agent, exists, err := s.boardRepo.GetFreeAgentByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("get free agent listing: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: listing=%s", ErrNotFound, listingID)
	}
	if agent.UserID != actorID {
		return fmt.Errorf("%w: listing belongs to another player", ErrUnauthorized)
	}

	if err := s.boardRepo.DeactivateFreeAgent(ctx, listingID); err != nil {
		return fmt.Errorf("deactivate free agent listing: %w", err)
	}

	return nil
}

func (s *RecruitmentService) ListFreeAgents(ctx context.Context) ([]recruitment.FreeAgent, error) {
	agents, err := s.boardRepo.ListActiveFreeAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list free agents: %w", err)
	}

	return agents, nil
}

// Apply files a join request against a recruitment post. Current members
// get squad.ErrAlreadyMember; an existing pending request surfaces as
// recruitment.ErrDuplicatePending.
func (s *RecruitmentService) Apply(ctx context.Context, input ApplyInput) (recruitment.JoinRequest, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.PostID = strings.TrimSpace(input.PostID)
	input.Message = strings.TrimSpace(input.Message)

	if input.ActorID == "" || input.PostID == "" {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: actor id and post id are required", ErrInvalidInput)
	}

	post, exists, err := s.boardRepo.GetPostByID(ctx, input.PostID)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("get post: %w", err)
	}
	if !exists {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: post=%s", ErrNotFound, input.PostID)
	}
	if !post.IsActive {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: recruitment post is closed", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, post.SquadID)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: squad=%s", ErrNotFound, post.SquadID)
	}
	if sq.HasMember(input.ActorID) {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: squad=%s", squad.ErrAlreadyMember, sq.ID)
	}

	requestID, err := s.idGen.NewID()
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("generate request id: %w", err)
	}

	req := recruitment.JoinRequest{
		ID:        requestID,
		SquadID:   sq.ID,
		PlayerID:  input.ActorID,
		Message:   input.Message,
		Status:    recruitment.RequestStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := req.Validate(); err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.joinRepo.CreatePending(ctx, req)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("create join request: %w", err)
	}

	if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
		RecipientID: sq.CaptainID,
		ActorID:     input.ActorID,
		Type:        notification.TypeInvite,
		Message:     fmt.Sprintf("A player applied to join squad %s.", sq.Name),
	}); err != nil {
		s.logger.ErrorContext(ctx, "apply notification failed", "request_id", created.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "join request created",
		"request_id", created.ID,
		"squad_id", sq.ID,
		"player_id", input.ActorID,
	)

	return created, nil
}

// Decide approves or rejects a join request. Only the squad captain may
// decide. Approval checks capacity against the roster alone; pending
// invites are not counted here. A full squad fails the approval and the
// request stays pending.
func (s *RecruitmentService) Decide(ctx context.Context, input DecideRequestInput) (recruitment.JoinRequest, error) {
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.RequestID = strings.TrimSpace(input.RequestID)

	if input.ActorID == "" || input.RequestID == "" {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: actor id and request id are required", ErrInvalidInput)
	}

	req, exists, err := s.joinRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("get join request: %w", err)
	}
	if !exists {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: join request=%s", ErrNotFound, input.RequestID)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, req.SquadID)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: squad=%s", ErrNotFound, req.SquadID)
	}
	if sq.CaptainID != input.ActorID {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: only the captain can decide", ErrUnauthorized)
	}

	if req.Status != recruitment.RequestStatusPending {
		return recruitment.JoinRequest{}, fmt.Errorf("%w: request=%s", recruitment.ErrRequestClosed, req.ID)
	}

	status := recruitment.RequestStatusRejected
	outcome := "Your request to join squad %s was rejected."
	if input.Approve {
		mode, exists, err := s.modeRepo.GetByID(ctx, sq.GameModeID)
		if err != nil {
			return recruitment.JoinRequest{}, fmt.Errorf("get game mode: %w", err)
		}
		if !exists {
			return recruitment.JoinRequest{}, fmt.Errorf("%w: game mode=%s", ErrNotFound, sq.GameModeID)
		}

		// Roster add runs before the status flip; a full squad leaves
		// the request pending.
		if err := s.squadRepo.AddMember(ctx, sq.ID, req.PlayerID, mode.MaxPlayers); err != nil {
			return recruitment.JoinRequest{}, fmt.Errorf("add member: %w", err)
		}

		status = recruitment.RequestStatusApproved
		outcome = "Your request to join squad %s was approved."
	}

	decided, err := s.joinRepo.Decide(ctx, req.ID, status)
	if err != nil {
		return recruitment.JoinRequest{}, fmt.Errorf("decide join request: %w", err)
	}

	if _, err := s.notifier.Emit(ctx, EmitNotificationInput{
		RecipientID: req.PlayerID,
		ActorID:     input.ActorID,
		Type:        notification.TypeSystem,
		Message:     fmt.Sprintf(outcome, sq.Name),
	}); err != nil {
		s.logger.ErrorContext(ctx, "decision notification failed", "request_id", req.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "join request decided",
		"request_id", req.ID,
		"squad_id", sq.ID,
		"status", string(decided.Status),
	)

	return decided, nil
}

// PendingRequests lists a squad's pending join requests for its captain.
func (s *RecruitmentService) PendingRequests(ctx context.Context, actorID, squadID string) ([]recruitment.JoinRequest, error) {
	actorID = strings.TrimSpace(actorID)
	squadID = strings.TrimSpace(squadID)
	if actorID == "" || squadID == "" {
		return nil, fmt.Errorf("%w: actor id and squad id are required", ErrInvalidInput)
	}

	sq, exists, err := s.squadRepo.GetByID(ctx, squadID)
	if err != nil {
		return nil, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: squad=%s", ErrNotFound, squadID)
	}
	if sq.CaptainID != actorID {
		return nil, fmt.Errorf("%w: only the captain can view join requests", ErrUnauthorized)
	}

	requests, err := s.joinRepo.ListPendingBySquad(ctx, squadID)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}

	return requests, nil
}

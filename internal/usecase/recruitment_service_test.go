package usecase

import (
	"errors"
	"testing"

	"github.com/arrotech/codarena/internal/domain/recruitment"
	"github.com/arrotech/codarena/internal/domain/squad"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
)

type recruitmentFixture struct {
	service   *RecruitmentService
	boardRepo *memory.BoardRepository
	joinRepo  *memory.JoinRequestRepository
	squadRepo *memory.SquadRepository
	notifRepo *memory.NotificationRepository
}

func newRecruitmentFixture(t *testing.T, squads []squad.Squad) recruitmentFixture {
	t.Helper()

	boardRepo := memory.NewBoardRepository()
	joinRepo := memory.NewJoinRequestRepository()
	squadRepo := memory.NewSquadRepository(squads)
	notifRepo := memory.NewNotificationRepository()

	service := NewRecruitmentService(
		boardRepo,
		joinRepo,
		squadRepo,
		memory.NewGameModeRepository(memory.SeedGameModes()),
		newTestNotifier(t, notifRepo),
		&seqIDGenerator{prefix: "rec"},
		discardLogger(),
	)

	return recruitmentFixture{service: service, boardRepo: boardRepo, joinRepo: joinRepo, squadRepo: squadRepo, notifRepo: notifRepo}
}

func createPost(t *testing.T, fx recruitmentFixture, captainID, squadID string) recruitment.Post {
	t.Helper()

	post, err := fx.service.CreatePost(t.Context(), CreatePostInput{
		ActorID:      captainID,
		SquadID:      squadID,
		SlotsOpen:    2,
		Requirements: "Mic required",
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func TestRecruitmentService_CreatePost_CaptainOnly(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})

	_, err := fx.service.CreatePost(t.Context(), CreatePostInput{
		ActorID:   "user-otieno",
		SquadID:   "squad-1",
		SlotsOpen: 2,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecruitmentService_Apply_MemberAndDuplicate(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru", "user-otieno"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	_, err := fx.service.Apply(t.Context(), ApplyInput{
		ActorID: "user-otieno",
		PostID:  post.ID,
	})
	if !errors.Is(err, squad.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	if _, err := fx.service.Apply(t.Context(), ApplyInput{
		ActorID: "user-mutua",
		PostID:  post.ID,
		Message: "Looking for a squad",
	}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	_, err = fx.service.Apply(t.Context(), ApplyInput{
		ActorID: "user-mutua",
		PostID:  post.ID,
	})
	if !errors.Is(err, recruitment.ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}

	notifications, _ := fx.notifRepo.ListByRecipient(t.Context(), "user-wanjiru")
	if len(notifications) != 1 {
		t.Fatalf("expected one application notification, got %d", len(notifications))
	}
}

func TestRecruitmentService_Decide_CaptainOnly(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	_, err = fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-otieno",
		RequestID: req.ID,
		Approve:   true,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecruitmentService_Decide_ApproveAddsToRoster(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	decided, err := fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   true,
	})
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decided.Status != recruitment.RequestStatusApproved {
		t.Fatalf("expected APPROVED, got %s", decided.Status)
	}

	sq, _, _ := fx.squadRepo.GetByID(t.Context(), "squad-1")
	if !sq.HasMember("user-mutua") {
		t.Fatalf("expected applicant on roster, got %v", sq.MemberIDs)
	}

	notifications, _ := fx.notifRepo.ListByRecipient(t.Context(), "user-mutua")
	if len(notifications) != 1 {
		t.Fatalf("expected decision notification, got %d", len(notifications))
	}
}

func TestRecruitmentService_Decide_RejectLeavesRoster(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	decided, err := fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   false,
	})
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decided.Status != recruitment.RequestStatusRejected {
		t.Fatalf("expected REJECTED, got %s", decided.Status)
	}

	sq, _, _ := fx.squadRepo.GetByID(t.Context(), "squad-1")
	if sq.HasMember("user-mutua") {
		t.Fatal("expected roster untouched on reject")
	}
}

func TestRecruitmentService_Decide_ApproveFullSquadStaysPending(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Lakeside Two", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDDuo, MemberIDs: []string{"user-wanjiru", "user-otieno"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	_, err = fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   true,
	})
	if !errors.Is(err, squad.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	stored, _, _ := fx.joinRepo.GetByID(t.Context(), req.ID)
	if stored.Status != recruitment.RequestStatusPending {
		t.Fatalf("expected request to stay PENDING, got %s", stored.Status)
	}

	sq, _, _ := fx.squadRepo.GetByID(t.Context(), "squad-1")
	if sq.HasMember("user-mutua") {
		t.Fatalf("expected roster unchanged, got %v", sq.MemberIDs)
	}

	decided, err := fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   false,
	})
	if err != nil {
		t.Fatalf("reject after failed approval: %v", err)
	}
	if decided.Status != recruitment.RequestStatusRejected {
		t.Fatalf("expected REJECTED, got %s", decided.Status)
	}
}

func TestRecruitmentService_Decide_TerminalRequest(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, err := fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   false,
	}); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}

	_, err = fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   true,
	})
	if !errors.Is(err, recruitment.ErrRequestClosed) {
		t.Fatalf("expected ErrRequestClosed, got %v", err)
	}
}

// Approvals check the roster alone: pending invites do not block them even
// when roster plus invites would exceed capacity.
func TestRecruitmentService_Decide_ApproveIgnoresPendingInvites(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Lakeside Two", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDDuo, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	inviteRepo := memory.NewInviteRepository()
	squadService := NewSquadService(
		fx.squadRepo,
		memory.NewGameModeRepository(memory.SeedGameModes()),
		memory.NewUserRepository(memory.SeedUsers()),
		inviteRepo,
		NoopNotifier(),
		&seqIDGenerator{prefix: "sq"},
		discardLogger(),
	)
	if _, err := squadService.Invite(t.Context(), InviteInput{
		ActorID:  "user-wanjiru",
		SquadID:  "squad-1",
		GamerTag: "eldoret-ace",
	}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	req, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	decided, err := fx.service.Decide(t.Context(), DecideRequestInput{
		ActorID:   "user-wanjiru",
		RequestID: req.ID,
		Approve:   true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if decided.Status != recruitment.RequestStatusApproved {
		t.Fatalf("expected APPROVED, got %s", decided.Status)
	}
}

func TestRecruitmentService_DeactivatePost_ClosesApplications(t *testing.T) {
	fx := newRecruitmentFixture(t, []squad.Squad{
		{ID: "squad-1", Name: "Nairobi Nine", CaptainID: "user-wanjiru", GameModeID: memory.GameModeIDSquad, MemberIDs: []string{"user-wanjiru"}},
	})
	post := createPost(t, fx, "user-wanjiru", "squad-1")

	if err := fx.service.DeactivatePost(t.Context(), "user-wanjiru", post.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	_, err := fx.service.Apply(t.Context(), ApplyInput{ActorID: "user-mutua", PostID: post.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for closed post, got %v", err)
	}

	posts, err := fx.service.ListPosts(t.Context())
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no active posts, got %d", len(posts))
	}
}

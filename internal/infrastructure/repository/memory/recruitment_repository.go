package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arrotech/codarena/internal/domain/recruitment"
)

type InviteRepository struct {
	mu    sync.Mutex
	items map[string]recruitment.Invite
}

func NewInviteRepository() *InviteRepository {
	return &InviteRepository{items: make(map[string]recruitment.Invite)}
}

// CreatePending returns the existing pending invite for the same
// (squad, invitee) with ErrDuplicatePending instead of inserting a second
// one, matching the partial unique index in the postgres repository.
func (r *InviteRepository) CreatePending(_ context.Context, inv recruitment.Invite) (recruitment.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Status == recruitment.InviteStatusPending &&
			existing.SquadID == inv.SquadID &&
			existing.InviteeID == inv.InviteeID {
			return existing, recruitment.ErrDuplicatePending
		}
	}

	inv.Status = recruitment.InviteStatusPending
	r.items[inv.ID] = inv

	return inv, nil
}

func (r *InviteRepository) GetByID(_ context.Context, inviteID string) (recruitment.Invite, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[inviteID]
	if !ok {
		return recruitment.Invite{}, false, nil
	}

	return inv, true, nil
}

func (r *InviteRepository) CountPendingBySquad(_ context.Context, squadID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, inv := range r.items {
		if inv.SquadID == squadID && inv.Status == recruitment.InviteStatusPending {
			count++
		}
	}

	return count, nil
}

func (r *InviteRepository) ListPendingByInvitee(_ context.Context, userID string) ([]recruitment.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]recruitment.Invite, 0)
	for _, inv := range r.items {
		if inv.InviteeID == userID && inv.Status == recruitment.InviteStatusPending {
			out = append(out, inv)
		}
	}
	sortInvites(out)

	return out, nil
}

func (r *InviteRepository) ListPendingBySquad(_ context.Context, squadID string) ([]recruitment.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]recruitment.Invite, 0)
	for _, inv := range r.items {
		if inv.SquadID == squadID && inv.Status == recruitment.InviteStatusPending {
			out = append(out, inv)
		}
	}
	sortInvites(out)

	return out, nil
}

func (r *InviteRepository) Decide(_ context.Context, inviteID string, status recruitment.InviteStatus) (recruitment.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[inviteID]
	if !ok || inv.Status != recruitment.InviteStatusPending {
		return recruitment.Invite{}, recruitment.ErrInviteClosed
	}

	inv.Status = status
	r.items[inviteID] = inv

	return inv, nil
}

func sortInvites(invites []recruitment.Invite) {
	sort.Slice(invites, func(i, j int) bool {
		return invites[i].CreatedAt.After(invites[j].CreatedAt)
	})
}

type JoinRequestRepository struct {
	mu    sync.Mutex
	items map[string]recruitment.JoinRequest
}

func NewJoinRequestRepository() *JoinRequestRepository {
	return &JoinRequestRepository{items: make(map[string]recruitment.JoinRequest)}
}

func (r *JoinRequestRepository) CreatePending(_ context.Context, req recruitment.JoinRequest) (recruitment.JoinRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Status == recruitment.RequestStatusPending &&
			existing.SquadID == req.SquadID &&
			existing.PlayerID == req.PlayerID {
			return existing, recruitment.ErrDuplicatePending
		}
	}

	req.Status = recruitment.RequestStatusPending
	r.items[req.ID] = req

	return req, nil
}

func (r *JoinRequestRepository) GetByID(_ context.Context, requestID string) (recruitment.JoinRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.items[requestID]
	if !ok {
		return recruitment.JoinRequest{}, false, nil
	}

	return req, true, nil
}

func (r *JoinRequestRepository) ListPendingBySquad(_ context.Context, squadID string) ([]recruitment.JoinRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]recruitment.JoinRequest, 0)
	for _, req := range r.items {
		if req.SquadID == squadID && req.Status == recruitment.RequestStatusPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *JoinRequestRepository) Decide(_ context.Context, requestID string, status recruitment.RequestStatus) (recruitment.JoinRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.items[requestID]
	if !ok || req.Status != recruitment.RequestStatusPending {
		return recruitment.JoinRequest{}, recruitment.ErrRequestClosed
	}

	req.Status = status
	r.items[requestID] = req

	return req, nil
}

type BoardRepository struct {
	mu     sync.Mutex
	posts  map[string]recruitment.Post
	agents map[string]recruitment.FreeAgent
}

func NewBoardRepository() *BoardRepository {
	return &BoardRepository{
		posts:  make(map[string]recruitment.Post),
		agents: make(map[string]recruitment.FreeAgent),
	}
}

func (r *BoardRepository) CreatePost(_ context.Context, p recruitment.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[p.ID] = p

	return nil
}

func (r *BoardRepository) GetPostByID(_ context.Context, postID string) (recruitment.Post, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return recruitment.Post{}, false, nil
	}

	return p, true, nil
}

func (r *BoardRepository) ListActivePosts(_ context.Context) ([]recruitment.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]recruitment.Post, 0)
	for _, p := range r.posts {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *BoardRepository) DeactivatePost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil
	}
	p.IsActive = false
	r.posts[postID] = p

	return nil
}

func (r *BoardRepository) CreateFreeAgent(_ context.Context, a recruitment.FreeAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents[a.ID] = a

	return nil
}

func (r *BoardRepository) GetFreeAgentByID(_ context.Context, listingID string) (recruitment.FreeAgent, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[listingID]
	if !ok {
		return recruitment.FreeAgent{}, false, nil
	}

	return a, true, nil
}

func (r *BoardRepository) ListActiveFreeAgents(_ context.Context) ([]recruitment.FreeAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]recruitment.FreeAgent, 0)
	for _, a := range r.agents {
		if a.IsActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *BoardRepository) DeactivateFreeAgent(_ context.Context, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[listingID]
	if !ok {
		return nil
	}
	a.IsActive = false
	r.agents[listingID] = a

	return nil
}

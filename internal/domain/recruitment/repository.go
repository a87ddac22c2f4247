package recruitment

import "context"

// InviteRepository describes invite persistence needs from use cases.
//
// CreatePending is get-or-create on (squad, inviter, invitee, PENDING):
// when a matching pending invite already exists it returns that invite and
// ErrDuplicatePending instead of inserting a second row. Decide is a
// compare-and-set that returns ErrInviteClosed when the invite is no
// longer pending.
type InviteRepository interface {
	CreatePending(ctx context.Context, inv Invite) (Invite, error)
	GetByID(ctx context.Context, inviteID string) (Invite, bool, error)
	CountPendingBySquad(ctx context.Context, squadID string) (int, error)
	ListPendingByInvitee(ctx context.Context, userID string) ([]Invite, error)
	ListPendingBySquad(ctx context.Context, squadID string) ([]Invite, error)
	Decide(ctx context.Context, inviteID string, status InviteStatus) (Invite, error)
}

// JoinRequestRepository describes join request persistence needs from use
// cases. CreatePending follows the same get-or-create contract as invites,
// keyed on (squad, player, PENDING). Decide returns ErrRequestClosed when
// the request is no longer pending.
type JoinRequestRepository interface {
	CreatePending(ctx context.Context, req JoinRequest) (JoinRequest, error)
	GetByID(ctx context.Context, requestID string) (JoinRequest, bool, error)
	ListPendingBySquad(ctx context.Context, squadID string) ([]JoinRequest, error)
	Decide(ctx context.Context, requestID string, status RequestStatus) (JoinRequest, error)
}

// BoardRepository describes recruitment board persistence needs from use
// cases. Active listings are returned newest first.
type BoardRepository interface {
	CreatePost(ctx context.Context, p Post) error
	GetPostByID(ctx context.Context, postID string) (Post, bool, error)
	ListActivePosts(ctx context.Context) ([]Post, error)
	DeactivatePost(ctx context.Context, postID string) error
	CreateFreeAgent(ctx context.Context, a FreeAgent) error
	GetFreeAgentByID(ctx context.Context, listingID string) (FreeAgent, bool, error)
	ListActiveFreeAgents(ctx context.Context) ([]FreeAgent, error)
	DeactivateFreeAgent(ctx context.Context, listingID string) error
}

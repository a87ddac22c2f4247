package recruitment

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDuplicatePending reports an invite or join request that already
	// exists in PENDING state for the same parties.
	ErrDuplicatePending = errors.New("a pending request already exists")
	// ErrInviteClosed rejects deciding an invite that is no longer pending.
	ErrInviteClosed = errors.New("invite is no longer pending")
	// ErrRequestClosed rejects deciding a join request that is no longer
	// pending.
	ErrRequestClosed = errors.New("join request is no longer pending")
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusDeclined InviteStatus = "DECLINED"
)

// Invite is a captain-to-player recruitment offer. A PENDING invite
// reserves a roster slot for capacity accounting, so a squad can never have
// more members plus outstanding invites than its game mode allows.
type Invite struct {
	ID        string
	SquadID   string
	InviterID string
	InviteeID string
	Status    InviteStatus
	CreatedAt time.Time
}

func (i Invite) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("invite id is required")
	}
	if i.SquadID == "" {
		return fmt.Errorf("invite squad id is required")
	}
	if i.InviterID == "" {
		return fmt.Errorf("invite inviter id is required")
	}
	if i.InviteeID == "" {
		return fmt.Errorf("invite invitee id is required")
	}
	if i.InviterID == i.InviteeID {
		return fmt.Errorf("cannot invite yourself")
	}

	return nil
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// JoinRequest is a player-to-squad application. Unlike invites, a pending
// join request does not reserve a roster slot; only approval checks
// capacity, and only against the roster.
type JoinRequest struct {
	ID        string
	SquadID   string
	PlayerID  string
	Message   string
	Status    RequestStatus
	CreatedAt time.Time
}

func (r JoinRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("join request id is required")
	}
	if r.SquadID == "" {
		return fmt.Errorf("join request squad id is required")
	}
	if r.PlayerID == "" {
		return fmt.Errorf("join request player id is required")
	}

	return nil
}

// Post is a captain's public listing that a squad has open slots.
type Post struct {
	ID           string
	SquadID      string
	SlotsOpen    int
	Requirements string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("post id is required")
	}
	if p.SquadID == "" {
		return fmt.Errorf("post squad id is required")
	}
	if p.SlotsOpen < 1 {
		return fmt.Errorf("post must advertise at least one open slot")
	}

	return nil
}

// FreeAgent is a player's public listing that they are available for
// recruitment into the listed game modes.
type FreeAgent struct {
	ID          string
	UserID      string
	GameModeIDs []string
	Message     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a FreeAgent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("free agent listing id is required")
	}
	if a.UserID == "" {
		return fmt.Errorf("free agent user id is required")
	}

	return nil
}

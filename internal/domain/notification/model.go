package notification

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeFixture Type = "FIXTURE"
	TypeResult  Type = "RESULT"
	TypeInvite  Type = "INVITE"
	TypeSystem  Type = "SYSTEM"
)

// Notification is a per-user message emitted by domain events: payment
// outcomes, invites, join request decisions, round results.
type Notification struct {
	ID          string
	RecipientID string
	ActorID     string
	Message     string
	Type        Type
	Link        string
	IsRead      bool
	CreatedAt   time.Time
}

func (n Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification id is required")
	}
	if n.RecipientID == "" {
		return fmt.Errorf("notification recipient id is required")
	}
	switch n.Type {
	case TypeFixture, TypeResult, TypeInvite, TypeSystem:
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	if n.Message == "" {
		return fmt.Errorf("notification message is required")
	}

	return nil
}

package squad

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded rejects a roster addition (or invite reserving a
	// slot) that would push the squad past its game mode capacity.
	ErrCapacityExceeded = errors.New("squad capacity exceeded")
	// ErrAlreadyMember rejects adding a player who is already on the roster.
	ErrAlreadyMember = errors.New("player is already a squad member")
)

// Squad is a roster of players competing together under one game mode.
// The captain created the squad and is placed on the roster at creation;
// readiness for a cohort is always derived, never stored.
type Squad struct {
	ID         string
	Name       string
	CaptainID  string
	GameModeID string
	MemberIDs  []string
}

func (s Squad) HasMember(userID string) bool {
	for _, id := range s.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (s Squad) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("squad name is required")
	}
	if s.CaptainID == "" {
		return fmt.Errorf("squad captain id is required")
	}
	if s.GameModeID == "" {
		return fmt.Errorf("squad game mode id is required")
	}

	return nil
}

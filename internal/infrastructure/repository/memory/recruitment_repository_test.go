package memory

import (
	"errors"
	"testing"

	"github.com/arrotech/codarena/internal/domain/recruitment"
)

// A pending invite is unique per (squad, invitee); a second inviter hits
// the same duplicate as the original one.
func TestInviteRepository_CreatePending_DuplicateAcrossInviters(t *testing.T) {
	repo := NewInviteRepository()

	first, err := repo.CreatePending(t.Context(), recruitment.Invite{
		ID:        "inv-1",
		SquadID:   "squad-1",
		InviterID: "user-wanjiru",
		InviteeID: "user-mutua",
	})
	if err != nil {
		t.Fatalf("create pending invite: %v", err)
	}

	existing, err := repo.CreatePending(t.Context(), recruitment.Invite{
		ID:        "inv-2",
		SquadID:   "squad-1",
		InviterID: "user-otieno",
		InviteeID: "user-mutua",
	})
	if !errors.Is(err, recruitment.ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}
	if existing.ID != first.ID {
		t.Fatalf("expected the original invite back, got %s", existing.ID)
	}
}

func TestInviteRepository_CreatePending_DecidedInviteDoesNotBlock(t *testing.T) {
	repo := NewInviteRepository()

	inv, err := repo.CreatePending(t.Context(), recruitment.Invite{
		ID:        "inv-1",
		SquadID:   "squad-1",
		InviterID: "user-wanjiru",
		InviteeID: "user-mutua",
	})
	if err != nil {
		t.Fatalf("create pending invite: %v", err)
	}
	if _, err := repo.Decide(t.Context(), inv.ID, recruitment.InviteStatusDeclined); err != nil {
		t.Fatalf("decide invite: %v", err)
	}

	if _, err := repo.CreatePending(t.Context(), recruitment.Invite{
		ID:        "inv-2",
		SquadID:   "squad-1",
		InviterID: "user-wanjiru",
		InviteeID: "user-mutua",
	}); err != nil {
		t.Fatalf("expected a fresh pending invite after decline, got %v", err)
	}
}

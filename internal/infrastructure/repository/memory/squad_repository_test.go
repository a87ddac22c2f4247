package memory

import (
	"errors"
	"testing"

	"github.com/arrotech/codarena/internal/domain/squad"
)

func TestSquadRepository_AddMember_UnknownSquad(t *testing.T) {
	repo := NewSquadRepository(nil)

	err := repo.AddMember(t.Context(), "squad-missing", "user-mutua", 4)
	if err == nil {
		t.Fatal("expected an error for an unknown squad")
	}
}

func TestSquadRepository_AddMember_CapacityRecheck(t *testing.T) {
	repo := NewSquadRepository([]squad.Squad{
		{ID: "squad-1", Name: "Lakeside Two", CaptainID: "user-wanjiru", GameModeID: GameModeIDDuo, MemberIDs: []string{"user-wanjiru"}},
	})

	if err := repo.AddMember(t.Context(), "squad-1", "user-otieno", 2); err != nil {
		t.Fatalf("add member with room: %v", err)
	}

	err := repo.AddMember(t.Context(), "squad-1", "user-mutua", 2)
	if !errors.Is(err, squad.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	s, _, _ := repo.GetByID(t.Context(), "squad-1")
	if len(s.MemberIDs) != 2 {
		t.Fatalf("expected roster of 2, got %v", s.MemberIDs)
	}
}

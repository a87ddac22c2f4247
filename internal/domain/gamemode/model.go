package gamemode

import "fmt"

// GameMode is immutable reference data describing a competition format:
// its entry fee and how many players a squad needs.
type GameMode struct {
	ID          string
	Name        string
	Description string
	EntryFee    int64
	MaxPlayers  int
}

func (m GameMode) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("game mode id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("game mode name is required")
	}
	if m.MaxPlayers < 1 {
		return fmt.Errorf("game mode max players must be >= 1")
	}
	if m.EntryFee < 0 {
		return fmt.Errorf("game mode entry fee cannot be negative")
	}

	return nil
}

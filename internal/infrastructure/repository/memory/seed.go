package memory

import (
	"time"

	"github.com/arrotech/codarena/internal/domain/cohort"
	"github.com/arrotech/codarena/internal/domain/gamemode"
	"github.com/arrotech/codarena/internal/domain/user"
)

const (
	CohortIDSeasonFour = "cohort-s4-2026"
	CohortIDSeasonFive = "cohort-s5-2026"

	GameModeIDSolo  = "gm-solo"
	GameModeIDDuo   = "gm-duo"
	GameModeIDSquad = "gm-squad"
)

func SeedUsers() []user.User {
	return []user.User{
		{ID: "user-admin", Email: "admin@codarena.example", PhoneNumber: "254700000001", GamerTag: "arena-admin", FullName: "Arena Admin", County: "Nairobi", IsStaff: true},
		{ID: "user-wanjiru", Email: "wanjiru@codarena.example", PhoneNumber: "254722000001", GamerTag: "sniperqueen", FullName: "Wanjiru Kamau", County: "Nairobi"},
		{ID: "user-otieno", Email: "otieno@codarena.example", PhoneNumber: "254722000002", GamerTag: "lakeside", FullName: "Brian Otieno", County: "Kisumu"},
		{ID: "user-mutua", Email: "mutua@codarena.example", PhoneNumber: "254722000003", GamerTag: "machakos1", FullName: "Kevin Mutua", County: "Machakos"},
		{ID: "user-chebet", Email: "chebet@codarena.example", PhoneNumber: "254722000004", GamerTag: "eldoret-ace", FullName: "Faith Chebet", County: "Uasin Gishu"},
	}
}

func SeedCohorts() []cohort.Cohort {
	return []cohort.Cohort{
		{
			ID:           CohortIDSeasonFour,
			Name:         "Season 4",
			Description:  "Fourth competitive season",
			StartDate:    time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2026, 11, 29, 0, 0, 0, 0, time.UTC),
			ClosesAt:     time.Date(2026, 9, 5, 23, 59, 0, 0, time.UTC),
			Status:       cohort.StatusRegistrationOngoing,
			IsOpenToJoin: true,
		},
		{
			ID:           CohortIDSeasonFive,
			Name:         "Season 5",
			Description:  "Fifth competitive season",
			StartDate:    time.Date(2027, 1, 11, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2027, 3, 28, 0, 0, 0, 0, time.UTC),
			ClosesAt:     time.Date(2027, 1, 9, 23, 59, 0, 0, time.UTC),
			Status:       cohort.StatusUpcoming,
			IsOpenToJoin: false,
		},
	}
}

func SeedGameModes() []gamemode.GameMode {
	return []gamemode.GameMode{
		{ID: GameModeIDSolo, Name: "Solo", Description: "Every player for themselves", EntryFee: 100, MaxPlayers: 1},
		{ID: GameModeIDDuo, Name: "Duo", Description: "Two-player teams", EntryFee: 150, MaxPlayers: 2},
		{ID: GameModeIDSquad, Name: "Squad", Description: "Four-player squads", EntryFee: 250, MaxPlayers: 4},
	}
}

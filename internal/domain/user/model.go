package user

import "fmt"

// User is a registered operator on the platform. Identity fields are
// immutable after registration; only profile stats change over time.
type User struct {
	ID          string
	Email       string
	PhoneNumber string
	GamerTag    string
	FullName    string
	County      string
	IsStaff     bool
}

// Profile carries the mutable career stats attached to a user.
type Profile struct {
	UserID     string
	Rank       int
	TotalKills int
	TotalXP    int
	Deaths     int
}

// Principal is the authenticated identity resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	if u.PhoneNumber == "" {
		return fmt.Errorf("user phone number is required")
	}

	return nil
}

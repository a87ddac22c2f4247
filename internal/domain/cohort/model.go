package cohort

import (
	"errors"
	"fmt"
	"time"
)

// ErrRegistrationClosed rejects enrollment into a cohort that is not
// accepting new participants.
var ErrRegistrationClosed = errors.New("cohort registration is closed")

type Status string

const (
	StatusUpcoming            Status = "upcoming"
	StatusRunning             Status = "running"
	StatusRegistrationOngoing Status = "registration_ongoing"
	StatusCompleted           Status = "completed"
)

// Cohort is a time-boxed competition season. Participants are tracked as a
// user-id set; joining twice is a no-op.
type Cohort struct {
	ID           string
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	ClosesAt     time.Time
	Status       Status
	IsOpenToJoin bool
}

func (c Cohort) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cohort id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("cohort name is required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("cohort start date must be before end date")
	}
	switch c.Status {
	case StatusUpcoming, StatusRunning, StatusRegistrationOngoing, StatusCompleted:
	default:
		return fmt.Errorf("unknown cohort status %q", c.Status)
	}

	return nil
}

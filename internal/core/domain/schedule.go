package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Schedule is the single active voting schedule. Replacing it yields a new ID,
// which is what auto-declaration idempotence is keyed on.
type Schedule struct {
	ID                uuid.UUID  `json:"id"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	Enabled           bool       `json:"enabled"`
	AutoDeclareWinner bool       `json:"auto_declare_winner"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Bounded reports whether both window bounds are set.
func (s *Schedule) Bounded() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// ScheduleFlags is a partial update of a schedule's switches; nil fields are left unchanged.
type ScheduleFlags struct {
	Enabled           *bool
	AutoDeclareWinner *bool
}

func NewSchedule(start, end *time.Time, enabled, autoDeclare bool, now time.Time) (*Schedule, error) {
	if start != nil && end != nil && !start.Before(*end) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return &Schedule{
		ID:                uuid.New(),
		StartTime:         start,
		EndTime:           end,
		Enabled:           enabled,
		AutoDeclareWinner: autoDeclare,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Declaration is the persisted winner declaration of the election.
// ProcessedScheduleID marks the schedule instance whose auto-declaration has
// already been handled.
type Declaration struct {
	Winner              Winner     `json:"winner,omitempty"`
	IsAutomatic         bool       `json:"is_automatic"`
	DeclaredAt          *time.Time `json:"declared_at,omitempty"`
	ProcessedScheduleID *uuid.UUID `json:"processed_schedule_id,omitempty"`
}

func (d Declaration) Declared() bool {
	return d.Winner != ""
}

func (d Declaration) ProcessedFor(scheduleID uuid.UUID) bool {
	return d.ProcessedScheduleID != nil && *d.ProcessedScheduleID == scheduleID
}

// AutoDeclareIfWindowEnded returns the automatic declaration for schedule once
// its window has ended. It fires at most once per schedule instance.
func AutoDeclareIfWindowEnded(now time.Time, schedule *Schedule, tally Tally, current Declaration) (Declaration, bool) {
	if schedule == nil || !schedule.AutoDeclareWinner {
		return current, false
	}
	if EvaluateWindow(now, schedule).Status != StatusEnded {
		return current, false
	}
	if current.ProcessedFor(schedule.ID) {
		return current, false
	}

	scheduleID := schedule.ID
	declaredAt := now
	return Declaration{
		Winner:              ResolveWinner(tally),
		IsAutomatic:         true,
		DeclaredAt:          &declaredAt,
		ProcessedScheduleID: &scheduleID,
	}, true
}

package domain

import (
	"fmt"
	"time"
)

type WindowStatus string

const (
	StatusNoSchedule WindowStatus = "no_schedule"
	StatusDisabled   WindowStatus = "disabled"
	StatusNotStarted WindowStatus = "not_started"
	StatusActive     WindowStatus = "active"
	StatusEnded      WindowStatus = "ended"
)

type WindowState struct {
	Status        WindowStatus   `json:"status"`
	CanVote       bool           `json:"can_vote"`
	TimeRemaining *time.Duration `json:"time_remaining,omitempty"`
	StartTime     *time.Time     `json:"start_time,omitempty"`
	EndTime       *time.Time     `json:"end_time,omitempty"`
}

// EvaluateWindow computes the voting status of s at now. Bounds are
// inclusive; a schedule missing either bound is open-ended.
func EvaluateWindow(now time.Time, s *Schedule) WindowState {
	if s == nil {
		return WindowState{Status: StatusNoSchedule}
	}

	state := WindowState{StartTime: s.StartTime, EndTime: s.EndTime}
	if !s.Enabled {
		state.Status = StatusDisabled
		return state
	}
	if !s.Bounded() {
		state.Status = StatusActive
		state.CanVote = true
		return state
	}

	switch {
	case now.Before(*s.StartTime):
		state.Status = StatusNotStarted
	case now.After(*s.EndTime):
		state.Status = StatusEnded
	default:
		remaining := s.EndTime.Sub(now)
		state.Status = StatusActive
		state.CanVote = true
		state.TimeRemaining = &remaining
	}
	return state
}

// FormatRemaining renders a remaining duration at the coarsest two useful units.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d minutes, %d seconds", minutes, seconds)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}

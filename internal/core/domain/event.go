package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventStudentRegistered EventType = "student.registered"
	EventVoteCast          EventType = "vote.cast"
	EventWinnerDeclared    EventType = "winner.declared"
	EventDeclarationReset  EventType = "declaration.reset"
	EventElectionReset     EventType = "election.reset"
	EventRosterReset       EventType = "roster.reset"
	EventScheduleReplaced  EventType = "schedule.replaced"
	EventScheduleUpdated   EventType = "schedule.updated"
	EventScheduleCleared   EventType = "schedule.cleared"
)

// Event describes a committed change to the election.
type Event struct {
	ID         uuid.UUID         `json:"event_id"`
	Type       EventType         `json:"event_type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Key        string            `json:"key,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func NewEvent(t EventType, occurredAt time.Time, key string, attrs map[string]string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: occurredAt,
		Key:        key,
		Attributes: attrs,
	}
}

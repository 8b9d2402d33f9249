package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type ScheduleRepository interface {
	// Get returns nil when no schedule is set.
	Get(ctx context.Context) (*domain.Schedule, error)
	// Replace swaps the singleton schedule wholesale.
	Replace(ctx context.Context, schedule *domain.Schedule) error
	// UpdateFlags fails with domain.ErrNoSchedule when no schedule is set.
	UpdateFlags(ctx context.Context, flags domain.ScheduleFlags, updatedAt time.Time) (*domain.Schedule, error)
	Clear(ctx context.Context) error
}

type ScheduleInput struct {
	StartTime         *time.Time
	EndTime           *time.Time
	AutoDeclareWinner bool
}

type WindowService interface {
	Status(ctx context.Context) (domain.WindowState, error)
	Schedule(ctx context.Context) (*domain.Schedule, error)
	SetSchedule(ctx context.Context, input ScheduleInput) (*domain.Schedule, error)
	OpenFor(ctx context.Context, d time.Duration, autoDeclare bool) (*domain.Schedule, error)
	EnableNow(ctx context.Context) (*domain.Schedule, error)
	Disable(ctx context.Context) (*domain.Schedule, error)
	SetAutoDeclare(ctx context.Context, enabled bool) (*domain.Schedule, error)
	Clear(ctx context.Context) error
}

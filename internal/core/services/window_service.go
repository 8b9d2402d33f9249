package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type windowService struct {
	schedules ports.ScheduleRepository
	clock     ports.Clock
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewWindowService(schedules ports.ScheduleRepository, clock ports.Clock, publisher ports.EventPublisher, logger *slog.Logger) ports.WindowService {
	return &windowService{
		schedules: schedules,
		clock:     clock,
		publisher: publisher,
		logger:    resolveLogger(logger),
	}
}

func (s *windowService) Status(ctx context.Context) (domain.WindowState, error) {
	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return domain.WindowState{}, err
	}
	return domain.EvaluateWindow(s.clock.Now(), schedule), nil
}

func (s *windowService) Schedule(ctx context.Context) (*domain.Schedule, error) {
	return s.schedules.Get(ctx)
}

func (s *windowService) SetSchedule(ctx context.Context, input ports.ScheduleInput) (*domain.Schedule, error) {
	if input.StartTime == nil || input.EndTime == nil {
		return nil, fmt.Errorf("%w: start and end time are required", domain.ErrInvalidInput)
	}
	loc := s.clock.Now().Location()
	start, end := input.StartTime.In(loc), input.EndTime.In(loc)
	return s.replace(ctx, &start, &end, input.AutoDeclareWinner)
}

func (s *windowService) OpenFor(ctx context.Context, d time.Duration, autoDeclare bool) (*domain.Schedule, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	start := s.clock.Now()
	end := start.Add(d)
	return s.replace(ctx, &start, &end, autoDeclare)
}

// EnableNow opens voting without an end time.
func (s *windowService) EnableNow(ctx context.Context) (*domain.Schedule, error) {
	start := s.clock.Now()
	return s.replace(ctx, &start, nil, false)
}

func (s *windowService) Disable(ctx context.Context) (*domain.Schedule, error) {
	enabled := false
	return s.updateFlags(ctx, domain.ScheduleFlags{Enabled: &enabled})
}

func (s *windowService) SetAutoDeclare(ctx context.Context, enabled bool) (*domain.Schedule, error) {
	return s.updateFlags(ctx, domain.ScheduleFlags{AutoDeclareWinner: &enabled})
}

func (s *windowService) Clear(ctx context.Context) error {
	if err := s.schedules.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("voting schedule cleared")
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventScheduleCleared, s.clock.Now(), "", nil))
	return nil
}

func (s *windowService) replace(ctx context.Context, start, end *time.Time, autoDeclare bool) (*domain.Schedule, error) {
	now := s.clock.Now()
	schedule, err := domain.NewSchedule(start, end, true, autoDeclare, now)
	if err != nil {
		return nil, err
	}
	if err := s.schedules.Replace(ctx, schedule); err != nil {
		return nil, err
	}

	attrs := map[string]string{"auto_declare_winner": fmt.Sprint(autoDeclare)}
	if start != nil {
		attrs["start_time"] = start.Format(time.RFC3339)
	}
	if end != nil {
		attrs["end_time"] = end.Format(time.RFC3339)
	}
	s.logger.Info("voting schedule replaced", "schedule_id", schedule.ID, "start_time", attrs["start_time"], "end_time", attrs["end_time"])
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventScheduleReplaced, now, schedule.ID.String(), attrs))
	return schedule, nil
}

func (s *windowService) updateFlags(ctx context.Context, flags domain.ScheduleFlags) (*domain.Schedule, error) {
	now := s.clock.Now()
	schedule, err := s.schedules.UpdateFlags(ctx, flags, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("voting schedule flags updated",
		"schedule_id", schedule.ID,
		"enabled", schedule.Enabled,
		"auto_declare_winner", schedule.AutoDeclareWinner,
	)
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventScheduleUpdated, now, schedule.ID.String(), map[string]string{
		"enabled":             fmt.Sprint(schedule.Enabled),
		"auto_declare_winner": fmt.Sprint(schedule.AutoDeclareWinner),
	}))
	return schedule, nil
}

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// SystemClock reports wall-clock time in the election's timezone.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// publish emits an event for an already committed change. Failures are logged only.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish election event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err,
		)
	}
}

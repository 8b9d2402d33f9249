package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

// AutoDeclareFunc decides, from a consistent snapshot, whether to record a new
// declaration.
type AutoDeclareFunc func(schedule *domain.Schedule, tally domain.Tally, current domain.Declaration) (domain.Declaration, bool)

type ElectionRepository interface {
	GetDeclaration(ctx context.Context) (domain.Declaration, error)
	// SaveDeclaration records a manual declaration. A nil ProcessedScheduleID
	// leaves the stored marker untouched.
	SaveDeclaration(ctx context.Context, declaration domain.Declaration) error
	// ClearDeclaration removes the winner but keeps the auto-declaration marker.
	ClearDeclaration(ctx context.Context) error
	// Reset deletes all votes and clears the winner in one transaction.
	Reset(ctx context.Context) error
	// AutoDeclare locks the election record, reads schedule and tally in the
	// same transaction and stores the declaration decide returns, if any.
	AutoDeclare(ctx context.Context, decide AutoDeclareFunc) (domain.Declaration, bool, error)
}

type Results struct {
	Tally       domain.Tally       `json:"tally"`
	TotalVotes  int                `json:"total_votes"`
	Leader      domain.Winner      `json:"leader"`
	Declaration domain.Declaration `json:"declaration"`
	Window      domain.WindowState `json:"window"`
}

type ElectionService interface {
	Tally(ctx context.Context) (domain.Tally, error)
	Results(ctx context.Context) (*Results, error)
	Declaration(ctx context.Context) (domain.Declaration, error)
	AutoDeclare(ctx context.Context) (domain.Declaration, bool, error)
	DeclareWinner(ctx context.Context, winner domain.Winner) (domain.Declaration, error)
	ResetDeclaration(ctx context.Context) error
	ResetElection(ctx context.Context) error
}

type Clock interface {
	Now() time.Time
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

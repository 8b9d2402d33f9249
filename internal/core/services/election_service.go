package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type electionService struct {
	election  ports.ElectionRepository
	votes     ports.VoteRepository
	schedules ports.ScheduleRepository
	clock     ports.Clock
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewElectionService(
	election ports.ElectionRepository,
	votes ports.VoteRepository,
	schedules ports.ScheduleRepository,
	clock ports.Clock,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ports.ElectionService {
	return &electionService{
		election:  election,
		votes:     votes,
		schedules: schedules,
		clock:     clock,
		publisher: publisher,
		logger:    resolveLogger(logger),
	}
}

func (s *electionService) Tally(ctx context.Context) (domain.Tally, error) {
	return s.votes.CountByCandidate(ctx)
}

// AutoDeclare declares the winner once the window of an auto-declaring
// schedule has ended. It is safe to call on every request.
func (s *electionService) AutoDeclare(ctx context.Context) (domain.Declaration, bool, error) {
	now := s.clock.Now()
	declaration, fired, err := s.election.AutoDeclare(ctx, func(schedule *domain.Schedule, tally domain.Tally, current domain.Declaration) (domain.Declaration, bool) {
		return domain.AutoDeclareIfWindowEnded(now, schedule, tally, current)
	})
	if err != nil {
		return domain.Declaration{}, false, err
	}
	if fired {
		s.logger.Info("winner declared automatically",
			"winner", declaration.Winner,
			"schedule_id", declaration.ProcessedScheduleID,
		)
		publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventWinnerDeclared, now, string(declaration.Winner), map[string]string{
			"automatic": "true",
		}))
	}
	return declaration, fired, nil
}

func (s *electionService) Declaration(ctx context.Context) (domain.Declaration, error) {
	declaration, _, err := s.AutoDeclare(ctx)
	return declaration, err
}

func (s *electionService) Results(ctx context.Context) (*ports.Results, error) {
	declaration, err := s.Declaration(ctx)
	if err != nil {
		return nil, err
	}
	tally, err := s.votes.CountByCandidate(ctx)
	if err != nil {
		return nil, err
	}
	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.Results{
		Tally:       tally,
		TotalVotes:  tally.Total(),
		Leader:      domain.ResolveWinner(tally),
		Declaration: declaration,
		Window:      domain.EvaluateWindow(s.clock.Now(), schedule),
	}, nil
}

// DeclareWinner records a manual declaration. It also marks the current
// schedule as processed so a later auto-declaration does not overwrite it.
func (s *electionService) DeclareWinner(ctx context.Context, winner domain.Winner) (domain.Declaration, error) {
	if !winner.Valid() {
		return domain.Declaration{}, fmt.Errorf("%w: unknown winner %q", domain.ErrInvalidInput, winner)
	}
	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return domain.Declaration{}, err
	}

	now := s.clock.Now()
	declaration := domain.Declaration{
		Winner:      winner,
		IsAutomatic: false,
		DeclaredAt:  &now,
	}
	if schedule != nil {
		id := schedule.ID
		declaration.ProcessedScheduleID = &id
	}
	if err := s.election.SaveDeclaration(ctx, declaration); err != nil {
		return domain.Declaration{}, err
	}

	s.logger.Info("winner declared by admin", "winner", winner)
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventWinnerDeclared, now, string(winner), map[string]string{
		"automatic": "false",
	}))
	return s.election.GetDeclaration(ctx)
}

func (s *electionService) ResetDeclaration(ctx context.Context) error {
	if err := s.election.ClearDeclaration(ctx); err != nil {
		return err
	}
	s.logger.Info("winner declaration reset")
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventDeclarationReset, s.clock.Now(), "", nil))
	return nil
}

func (s *electionService) ResetElection(ctx context.Context) error {
	if err := s.election.Reset(ctx); err != nil {
		return err
	}
	s.logger.Warn("election reset, all votes cleared")
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventElectionReset, s.clock.Now(), "", nil))
	return nil
}

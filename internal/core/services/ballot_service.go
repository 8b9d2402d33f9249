package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ballotService struct {
	students  ports.StudentRepository
	votes     ports.VoteRepository
	schedules ports.ScheduleRepository
	clock     ports.Clock
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewBallotService(
	students ports.StudentRepository,
	votes ports.VoteRepository,
	schedules ports.ScheduleRepository,
	clock ports.Clock,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ports.BallotService {
	return &ballotService{
		students:  students,
		votes:     votes,
		schedules: schedules,
		clock:     clock,
		publisher: publisher,
		logger:    resolveLogger(logger),
	}
}

func (s *ballotService) Register(ctx context.Context, registerNumber, name string) (*domain.Student, error) {
	now := s.clock.Now()
	student, err := domain.NewStudent(registerNumber, name, now)
	if err != nil {
		return nil, err
	}

	if err := s.students.Insert(ctx, student); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			s.logger.Info("duplicate registration rejected", "register_number", student.RegisterNumber)
		}
		return nil, err
	}

	s.logger.Info("student registered", "register_number", student.RegisterNumber)
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventStudentRegistered, now, student.RegisterNumber, nil))
	return student, nil
}

func (s *ballotService) IsRegistered(ctx context.Context, registerNumber string) (bool, error) {
	student, err := s.GetStudent(ctx, registerNumber)
	if err != nil {
		return false, err
	}
	return student != nil, nil
}

func (s *ballotService) GetStudent(ctx context.Context, registerNumber string) (*domain.Student, error) {
	key := domain.NormalizeRegisterNumber(registerNumber)
	if key == "" {
		return nil, nil
	}
	return s.students.GetByRegisterNumber(ctx, key)
}

func (s *ballotService) HasVoted(ctx context.Context, registerNumber string) (bool, error) {
	key := domain.NormalizeRegisterNumber(registerNumber)
	if key == "" {
		return false, nil
	}
	vote, err := s.votes.GetByRegisterNumber(ctx, key)
	if err != nil {
		return false, err
	}
	return vote != nil, nil
}

// CastVote re-checks the window and registration at write time; the store's
// uniqueness constraint decides between concurrent ballots.
func (s *ballotService) CastVote(ctx context.Context, registerNumber string, candidate domain.Candidate) (*domain.Vote, error) {
	if !candidate.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", domain.ErrInvalidInput, domain.ErrInvalidCandidate, candidate)
	}
	key := domain.NormalizeRegisterNumber(registerNumber)
	if key == "" {
		return nil, fmt.Errorf("%w: register number is required", domain.ErrInvalidInput)
	}

	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	window := domain.EvaluateWindow(now, schedule)
	if !window.CanVote {
		s.logger.Info("vote rejected outside window", "register_number", key, "status", window.Status)
		return nil, fmt.Errorf("%w: status is %s", domain.ErrWindowClosed, window.Status)
	}

	student, err := s.students.GetByRegisterNumber(ctx, key)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotRegistered
	}

	vote := &domain.Vote{
		RegisterNumber: key,
		Candidate:      candidate,
		CastAt:         now,
	}
	if err := s.votes.Insert(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			s.logger.Info("duplicate vote rejected", "register_number", key)
		}
		return nil, err
	}

	s.logger.Info("vote cast", "register_number", key, "vote_id", vote.ID)
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventVoteCast, now, key, map[string]string{
		"candidate": string(candidate),
		"vote_id":   strconv.FormatInt(vote.ID, 10),
	}))
	return vote, nil
}

func (s *ballotService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return s.students.List(ctx)
}

func (s *ballotService) StudentCount(ctx context.Context) (int, error) {
	return s.students.Count(ctx)
}

func (s *ballotService) ListVoters(ctx context.Context) ([]domain.VoterRecord, error) {
	return s.votes.ListVoters(ctx)
}

func (s *ballotService) VoteCount(ctx context.Context) (int, error) {
	return s.votes.Count(ctx)
}

func (s *ballotService) DeleteAllStudents(ctx context.Context) error {
	if err := s.students.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Warn("student roster deleted")
	publish(ctx, s.publisher, s.logger, domain.NewEvent(domain.EventRosterReset, s.clock.Now(), "", nil))
	return nil
}

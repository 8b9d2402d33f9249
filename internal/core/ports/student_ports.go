package ports

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type StudentRepository interface {
	// Insert fails with domain.ErrDuplicateRegistration on an existing register number.
	Insert(ctx context.Context, student *domain.Student) error
	// GetByRegisterNumber returns nil when the student does not exist.
	GetByRegisterNumber(ctx context.Context, registerNumber string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Count(ctx context.Context) (int, error)
	// DeleteAll removes every student and vote and clears the declaration.
	DeleteAll(ctx context.Context) error
}

type BallotService interface {
	Register(ctx context.Context, registerNumber, name string) (*domain.Student, error)
	IsRegistered(ctx context.Context, registerNumber string) (bool, error)
	HasVoted(ctx context.Context, registerNumber string) (bool, error)
	CastVote(ctx context.Context, registerNumber string, candidate domain.Candidate) (*domain.Vote, error)
	GetStudent(ctx context.Context, registerNumber string) (*domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	StudentCount(ctx context.Context) (int, error)
	ListVoters(ctx context.Context) ([]domain.VoterRecord, error)
	VoteCount(ctx context.Context) (int, error)
	DeleteAllStudents(ctx context.Context) error
}

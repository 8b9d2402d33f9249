package ports

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type VoteRepository interface {
	// Insert is an atomic check-and-insert: a second vote for the same register
	// number fails with domain.ErrAlreadyVoted, a missing student with
	// domain.ErrNotRegistered. On success vote.ID is set.
	Insert(ctx context.Context, vote *domain.Vote) error
	// GetByRegisterNumber returns nil when the student has not voted.
	GetByRegisterNumber(ctx context.Context, registerNumber string) (*domain.Vote, error)
	CountByCandidate(ctx context.Context) (domain.Tally, error)
	Count(ctx context.Context) (int, error)
	ListVoters(ctx context.Context) ([]domain.VoterRecord, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Insert relies on the unique register_number constraint, so concurrent
// ballots for one student cannot both succeed.
func (r *voteRepository) Insert(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (register_number, candidate, cast_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, vote.RegisterNumber, string(vote.Candidate), vote.CastAt).Scan(&vote.ID)
	if err != nil {
		switch pqCode(err) {
		case uniqueViolation:
			return domain.ErrAlreadyVoted
		case foreignKeyViolation:
			return domain.ErrNotRegistered
		case checkViolation:
			return fmt.Errorf("%w: %w: %q", domain.ErrInvalidInput, domain.ErrInvalidCandidate, vote.Candidate)
		}
		return storeError("save vote", err)
	}
	return nil
}

func (r *voteRepository) GetByRegisterNumber(ctx context.Context, registerNumber string) (*domain.Vote, error) {
	query := `SELECT id, register_number, candidate, cast_at FROM votes WHERE register_number = $1`

	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, registerNumber).Scan(&vote.ID, &vote.RegisterNumber, &vote.Candidate, &vote.CastAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get vote", err)
	}
	return &vote, nil
}

func (r *voteRepository) CountByCandidate(ctx context.Context) (domain.Tally, error) {
	return countByCandidate(ctx, r.db)
}

func (r *voteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&count); err != nil {
		return 0, storeError("count votes", err)
	}
	return count, nil
}

func (r *voteRepository) ListVoters(ctx context.Context) ([]domain.VoterRecord, error) {
	query := `
		SELECT s.register_number, s.name, v.candidate, v.cast_at
		FROM votes v
		JOIN students s ON s.register_number = v.register_number
		ORDER BY v.cast_at DESC, v.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list voters", err)
	}
	defer rows.Close()

	voters := []domain.VoterRecord{}
	for rows.Next() {
		var v domain.VoterRecord
		if err := rows.Scan(&v.RegisterNumber, &v.Name, &v.Candidate, &v.CastAt); err != nil {
			return nil, storeError("scan voter", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate voters", err)
	}
	return voters, nil
}

func countByCandidate(ctx context.Context, q querier) (domain.Tally, error) {
	rows, err := q.QueryContext(ctx, `SELECT candidate, COUNT(*) FROM votes GROUP BY candidate`)
	if err != nil {
		return nil, storeError("count votes by candidate", err)
	}
	defer rows.Close()

	tally := domain.NewTally()
	for rows.Next() {
		var (
			candidate domain.Candidate
			count     int
		)
		if err := rows.Scan(&candidate, &count); err != nil {
			return nil, storeError("scan vote count", err)
		}
		tally[candidate] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate vote counts", err)
	}
	return tally, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const scheduleColumns = `id, start_time, end_time, enabled, auto_declare_winner, created_at, updated_at`

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ports.ScheduleRepository {
	return &scheduleRepository{
		db: db,
	}
}

func (r *scheduleRepository) Get(ctx context.Context) (*domain.Schedule, error) {
	return getSchedule(ctx, r.db)
}

func (r *scheduleRepository) Replace(ctx context.Context, schedule *domain.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := lockElection(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM voting_schedule`); err != nil {
		return storeError("delete schedule", err)
	}

	query := `
		INSERT INTO voting_schedule (id, start_time, end_time, enabled, auto_declare_winner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		schedule.ID, nullTime(schedule.StartTime), nullTime(schedule.EndTime),
		schedule.Enabled, schedule.AutoDeclareWinner, schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return storeError("insert schedule", err)
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}

func (r *scheduleRepository) UpdateFlags(ctx context.Context, flags domain.ScheduleFlags, updatedAt time.Time) (*domain.Schedule, error) {
	query := `
		UPDATE voting_schedule
		SET enabled = COALESCE($1, enabled),
			auto_declare_winner = COALESCE($2, auto_declare_winner),
			updated_at = $3
		RETURNING ` + scheduleColumns

	schedule, err := scanSchedule(r.db.QueryRowContext(ctx, query, nullBool(flags.Enabled), nullBool(flags.AutoDeclareWinner), updatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoSchedule
		}
		return nil, storeError("update schedule", err)
	}
	return schedule, nil
}

func (r *scheduleRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM voting_schedule`); err != nil {
		return storeError("clear schedule", err)
	}
	return nil
}

func getSchedule(ctx context.Context, q querier) (*domain.Schedule, error) {
	schedule, err := scanSchedule(q.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM voting_schedule LIMIT 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get schedule", err)
	}
	return schedule, nil
}

func scanSchedule(row *sql.Row) (*domain.Schedule, error) {
	var (
		s          domain.Schedule
		start, end sql.NullTime
	)
	if err := row.Scan(&s.ID, &start, &end, &s.Enabled, &s.AutoDeclareWinner, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		s.StartTime = &start.Time
	}
	if end.Valid {
		s.EndTime = &end.Time
	}
	return &s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

package sqlite

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
	db  *sql.DB
	loc *time.Location
}

func NewScheduleRepository(db *sql.DB, loc *time.Location) ports.ScheduleRepository {
	return &scheduleRepository{db: db, loc: resolveLocation(loc)}
}

func (r *scheduleRepository) Get(ctx context.Context) (*domain.Schedule, error) {
	return getSchedule(ctx, r.db, r.loc)
}

func (r *scheduleRepository) Replace(ctx context.Context, schedule *domain.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM voting_schedule`); err != nil {
		return storeError("delete schedule", err)
	}

	query := `
		INSERT INTO voting_schedule (id, start_time, end_time, enabled, auto_declare_winner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		schedule.ID.String(), formatNullTime(schedule.StartTime), formatNullTime(schedule.EndTime),
		schedule.Enabled, schedule.AutoDeclareWinner, formatTime(schedule.CreatedAt), formatTime(schedule.UpdatedAt),
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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE voting_schedule
		SET enabled = COALESCE(?, enabled),
			auto_declare_winner = COALESCE(?, auto_declare_winner),
			updated_at = ?
	`
	res, err := tx.ExecContext(ctx, query, nullBool(flags.Enabled), nullBool(flags.AutoDeclareWinner), formatTime(updatedAt))
	if err != nil {
		return nil, storeError("update schedule", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, storeError("update schedule", err)
	}
	if affected == 0 {
		return nil, domain.ErrNoSchedule
	}

	schedule, err := getSchedule(ctx, tx, r.loc)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}
	return schedule, nil
}

func (r *scheduleRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM voting_schedule`); err != nil {
		return storeError("clear schedule", err)
	}
	return nil
}

func getSchedule(ctx context.Context, q querier, loc *time.Location) (*domain.Schedule, error) {
	var (
		s                    domain.Schedule
		start, end           sql.NullString
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM voting_schedule LIMIT 1`).
		Scan(&s.ID, &start, &end, &s.Enabled, &s.AutoDeclareWinner, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get schedule", err)
	}

	if s.StartTime, err = parseNullTime(start, loc); err != nil {
		return nil, storeError("parse schedule start", err)
	}
	if s.EndTime, err = parseNullTime(end, loc); err != nil {
		return nil, storeError("parse schedule end", err)
	}
	if s.CreatedAt, err = parseTime(createdAt, loc); err != nil {
		return nil, storeError("parse schedule creation time", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt, loc); err != nil {
		return nil, storeError("parse schedule update time", err)
	}
	return &s, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

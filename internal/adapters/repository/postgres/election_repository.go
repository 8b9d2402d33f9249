package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const saveDeclarationQuery = `
	UPDATE election
	SET winner = $1,
		is_automatic = $2,
		declared_at = $3,
		processed_schedule_id = COALESCE($4, processed_schedule_id)
	WHERE id = 1
`

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

func (r *electionRepository) GetDeclaration(ctx context.Context) (domain.Declaration, error) {
	return getDeclaration(ctx, r.db, false)
}

func (r *electionRepository) SaveDeclaration(ctx context.Context, declaration domain.Declaration) error {
	_, err := r.db.ExecContext(ctx, saveDeclarationQuery, declarationArgs(declaration)...)
	if err != nil {
		return storeError("save declaration", err)
	}
	return nil
}

func (r *electionRepository) ClearDeclaration(ctx context.Context) error {
	return clearDeclaration(ctx, r.db)
}

func (r *electionRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := lockElection(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes`); err != nil {
		return storeError("delete votes", err)
	}
	if err := clearDeclaration(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}

func (r *electionRepository) AutoDeclare(ctx context.Context, decide ports.AutoDeclareFunc) (domain.Declaration, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Declaration{}, false, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	current, err := getDeclaration(ctx, tx, true)
	if err != nil {
		return domain.Declaration{}, false, err
	}
	schedule, err := getSchedule(ctx, tx)
	if err != nil {
		return domain.Declaration{}, false, err
	}
	if schedule == nil || !schedule.AutoDeclareWinner || current.ProcessedFor(schedule.ID) {
		return current, false, nil
	}

	tally, err := countByCandidate(ctx, tx)
	if err != nil {
		return domain.Declaration{}, false, err
	}
	next, fired := decide(schedule, tally, current)
	if !fired {
		return current, false, nil
	}

	if _, err := tx.ExecContext(ctx, saveDeclarationQuery, declarationArgs(next)...); err != nil {
		return domain.Declaration{}, false, storeError("save declaration", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Declaration{}, false, storeError("commit transaction", err)
	}
	return next, true, nil
}

func getDeclaration(ctx context.Context, q querier, forUpdate bool) (domain.Declaration, error) {
	query := `SELECT winner, is_automatic, declared_at, processed_schedule_id FROM election WHERE id = 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		d          domain.Declaration
		winner     sql.NullString
		declaredAt sql.NullTime
		processed  uuid.NullUUID
	)
	err := q.QueryRowContext(ctx, query).Scan(&winner, &d.IsAutomatic, &declaredAt, &processed)
	if err != nil {
		return domain.Declaration{}, storeError("get declaration", err)
	}
	if winner.Valid {
		d.Winner = domain.Winner(winner.String)
	}
	if declaredAt.Valid {
		d.DeclaredAt = &declaredAt.Time
	}
	if processed.Valid {
		d.ProcessedScheduleID = &processed.UUID
	}
	return d, nil
}

func clearDeclaration(ctx context.Context, q querier) error {
	query := `UPDATE election SET winner = NULL, is_automatic = FALSE, declared_at = NULL WHERE id = 1`
	if _, err := q.ExecContext(ctx, query); err != nil {
		return storeError("clear declaration", err)
	}
	return nil
}

func declarationArgs(d domain.Declaration) []any {
	var processed uuid.NullUUID
	if d.ProcessedScheduleID != nil {
		processed = uuid.NullUUID{UUID: *d.ProcessedScheduleID, Valid: true}
	}
	return []any{string(d.Winner), d.IsAutomatic, nullTime(d.DeclaredAt), processed}
}

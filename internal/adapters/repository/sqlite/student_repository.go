package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type studentRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewStudentRepository(db *sql.DB, loc *time.Location) ports.StudentRepository {
	return &studentRepository{db: db, loc: resolveLocation(loc)}
}

func (r *studentRepository) Insert(ctx context.Context, student *domain.Student) error {
	query := `INSERT INTO students (register_number, name, registered_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, student.RegisterNumber, student.Name, formatTime(student.RegisteredAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return storeError("insert student", err)
	}
	return nil
}

func (r *studentRepository) GetByRegisterNumber(ctx context.Context, registerNumber string) (*domain.Student, error) {
	query := `SELECT register_number, name, registered_at FROM students WHERE register_number = ?`

	var (
		student      domain.Student
		registeredAt string
	)
	err := r.db.QueryRowContext(ctx, query, registerNumber).Scan(&student.RegisterNumber, &student.Name, &registeredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get student", err)
	}
	if student.RegisteredAt, err = parseTime(registeredAt, r.loc); err != nil {
		return nil, storeError("parse registration time", err)
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `SELECT register_number, name, registered_at FROM students ORDER BY registered_at DESC, register_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list students", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		var (
			s            domain.Student
			registeredAt string
		)
		if err := rows.Scan(&s.RegisterNumber, &s.Name, &registeredAt); err != nil {
			return nil, storeError("scan student", err)
		}
		if s.RegisteredAt, err = parseTime(registeredAt, r.loc); err != nil {
			return nil, storeError("parse registration time", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate students", err)
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, storeError("count students", err)
	}
	return count, nil
}

func (r *studentRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes`); err != nil {
		return storeError("delete votes", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return storeError("delete students", err)
	}
	if err := clearDeclaration(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit transaction", err)
	}
	return nil
}

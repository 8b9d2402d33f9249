// Package repository opens the configured store and builds its repositories.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Set struct {
	DB        *sql.DB
	Students  ports.StudentRepository
	Votes     ports.VoteRepository
	Schedules ports.ScheduleRepository
	Election  ports.ElectionRepository
}

func (s *Set) Close() error {
	return s.DB.Close()
}

// Open connects to the store selected by cfg.DatabaseType. SQLite schemas are
// created on open; PostgreSQL schemas are applied by cmd/migrations.
func Open(ctx context.Context, cfg config.Config) (*Set, error) {
	switch cfg.DatabaseType {
	case config.DatabasePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Set{
			DB:        db,
			Students:  postgres.NewStudentRepository(db),
			Votes:     postgres.NewVoteRepository(db),
			Schedules: postgres.NewScheduleRepository(db),
			Election:  postgres.NewElectionRepository(db),
		}, nil

	case config.DatabaseSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := sqlite.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Set{
			DB:        db,
			Students:  sqlite.NewStudentRepository(db, cfg.Location),
			Votes:     sqlite.NewVoteRepository(db, cfg.Location),
			Schedules: sqlite.NewScheduleRepository(db, cfg.Location),
			Election:  sqlite.NewElectionRepository(db, cfg.Location),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "election.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.CreateSchema(ctx, db))
	return db
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, sqlite.CreateSchema(context.Background(), db))

	declaration, err := sqlite.NewElectionRepository(db, nil).GetDeclaration(context.Background())
	require.NoError(t, err)
	assert.False(t, declaration.Declared())
	assert.Nil(t, declaration.ProcessedScheduleID)
}

func TestStudentRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loc := kolkata(t)
	repo := sqlite.NewStudentRepository(db, loc)
	registeredAt := time.Date(2025, 3, 1, 9, 30, 0, 0, loc)

	require.NoError(t, repo.Insert(ctx, &domain.Student{RegisterNumber: "REG001", Name: "Asha", RegisteredAt: registeredAt}))

	err := repo.Insert(ctx, &domain.Student{RegisterNumber: "REG001", Name: "Someone Else", RegisteredAt: registeredAt})
	require.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	student, err := repo.GetByRegisterNumber(ctx, "REG001")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "Asha", student.Name)
	assert.True(t, registeredAt.Equal(student.RegisteredAt))
	assert.Equal(t, loc, student.RegisteredAt.Location())

	missing, err := repo.GetByRegisterNumber(ctx, "REG404")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVoteRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	students := sqlite.NewStudentRepository(db, nil)
	votes := sqlite.NewVoteRepository(db, nil)
	now := time.Now().UTC()

	for _, regNo := range []string{"REG001", "REG002", "REG003"} {
		require.NoError(t, students.Insert(ctx, &domain.Student{RegisterNumber: regNo, Name: "Student " + regNo, RegisteredAt: now}))
	}

	t.Run("unknown student", func(t *testing.T) {
		err := votes.Insert(ctx, &domain.Vote{RegisterNumber: "NOPE", Candidate: domain.CandidateA, CastAt: now})
		require.ErrorIs(t, err, domain.ErrNotRegistered)
	})

	t.Run("invalid candidate", func(t *testing.T) {
		err := votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG001", Candidate: "C", CastAt: now})
		require.ErrorIs(t, err, domain.ErrInvalidCandidate)
	})

	t.Run("second vote is rejected", func(t *testing.T) {
		first := &domain.Vote{RegisterNumber: "REG001", Candidate: domain.CandidateA, CastAt: now}
		require.NoError(t, votes.Insert(ctx, first))
		assert.NotZero(t, first.ID)

		err := votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG001", Candidate: domain.CandidateB, CastAt: now})
		require.ErrorIs(t, err, domain.ErrAlreadyVoted)

		vote, err := votes.GetByRegisterNumber(ctx, "REG001")
		require.NoError(t, err)
		require.NotNil(t, vote)
		assert.Equal(t, domain.CandidateA, vote.Candidate)
	})

	t.Run("tally and voters", func(t *testing.T) {
		require.NoError(t, votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG002", Candidate: domain.CandidateA, CastAt: now.Add(time.Second)}))
		require.NoError(t, votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG003", Candidate: domain.CandidateB, CastAt: now.Add(2 * time.Second)}))

		tally, err := votes.CountByCandidate(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Tally{domain.CandidateA: 2, domain.CandidateB: 1}, tally)

		voters, err := votes.ListVoters(ctx)
		require.NoError(t, err)
		require.Len(t, voters, 3)
		assert.Equal(t, "REG003", voters[0].RegisterNumber)
		assert.Equal(t, "Student REG003", voters[0].Name)
	})
}

func TestConcurrentVotesRecordOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	students := sqlite.NewStudentRepository(db, nil)
	votes := sqlite.NewVoteRepository(db, nil)
	now := time.Now()

	require.NoError(t, students.Insert(ctx, &domain.Student{RegisterNumber: "REG001", Name: "Asha", RegisteredAt: now}))

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := domain.Candidates[i%2]
			err := votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG001", Candidate: candidate, CastAt: now})
			if err == nil {
				successes.Add(1)
				return
			}
			if assert.ErrorIs(t, err, domain.ErrAlreadyVoted) {
				rejected.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(7), rejected.Load())

	count, err := votes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScheduleRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loc := kolkata(t)
	repo := sqlite.NewScheduleRepository(db, loc)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, loc)

	schedule, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, schedule)

	enabled := false
	_, err = repo.UpdateFlags(ctx, domain.ScheduleFlags{Enabled: &enabled}, now)
	require.ErrorIs(t, err, domain.ErrNoSchedule)

	end := now.Add(30 * time.Minute)
	first, err := domain.NewSchedule(&now, &end, true, false, now)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(ctx, first))

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
	require.NotNil(t, stored.EndTime)
	assert.True(t, end.Equal(*stored.EndTime))
	assert.True(t, stored.Enabled)

	second, err := domain.NewSchedule(&now, nil, true, false, now)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(ctx, second))

	stored, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID)
	assert.Nil(t, stored.EndTime)

	autoDeclare := true
	updated, err := repo.UpdateFlags(ctx, domain.ScheduleFlags{AutoDeclareWinner: &autoDeclare}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, updated.AutoDeclareWinner)
	assert.True(t, updated.Enabled)
	assert.Equal(t, second.ID, updated.ID)

	require.NoError(t, repo.Clear(ctx))
	stored, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestScheduleReadsNaiveTimestampsInLocation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	loc := kolkata(t)

	_, err := db.ExecContext(ctx, `
		INSERT INTO voting_schedule (id, start_time, end_time, enabled, auto_declare_winner, created_at, updated_at)
		VALUES ('8f14e45f-ceea-467f-a4b6-3b5a2e1c9d10', '2025-03-01 09:00:00', '2025-03-01 17:00:00', 1, 0, '2025-03-01 08:00:00', '2025-03-01 08:00:00')
	`)
	require.NoError(t, err)

	schedule, err := sqlite.NewScheduleRepository(db, loc).Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, schedule.StartTime)
	assert.True(t, time.Date(2025, 3, 1, 9, 0, 0, 0, loc).Equal(*schedule.StartTime))
}

func TestElectionRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	students := sqlite.NewStudentRepository(db, nil)
	votes := sqlite.NewVoteRepository(db, nil)
	schedules := sqlite.NewScheduleRepository(db, nil)
	election := sqlite.NewElectionRepository(db, nil)
	now := time.Now().UTC()

	require.NoError(t, students.Insert(ctx, &domain.Student{RegisterNumber: "REG001", Name: "Asha", RegisteredAt: now}))
	require.NoError(t, votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG001", Candidate: domain.CandidateA, CastAt: now}))

	start, end := now.Add(-time.Hour), now.Add(-time.Minute)
	schedule, err := domain.NewSchedule(&start, &end, true, true, now)
	require.NoError(t, err)
	require.NoError(t, schedules.Replace(ctx, schedule))

	decide := func(s *domain.Schedule, tally domain.Tally, current domain.Declaration) (domain.Declaration, bool) {
		return domain.AutoDeclareIfWindowEnded(now, s, tally, current)
	}

	t.Run("auto declaration fires once", func(t *testing.T) {
		declaration, fired, err := election.AutoDeclare(ctx, decide)
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, domain.WinnerA, declaration.Winner)

		_, fired, err = election.AutoDeclare(ctx, decide)
		require.NoError(t, err)
		assert.False(t, fired)
	})

	t.Run("clearing keeps the processed marker", func(t *testing.T) {
		require.NoError(t, election.ClearDeclaration(ctx))

		declaration, fired, err := election.AutoDeclare(ctx, decide)
		require.NoError(t, err)
		assert.False(t, fired)
		assert.False(t, declaration.Declared())
		require.NotNil(t, declaration.ProcessedScheduleID)
		assert.Equal(t, schedule.ID, *declaration.ProcessedScheduleID)
	})

	t.Run("manual declaration keeps marker when none given", func(t *testing.T) {
		require.NoError(t, election.SaveDeclaration(ctx, domain.Declaration{Winner: domain.WinnerTie, DeclaredAt: &now}))

		declaration, err := election.GetDeclaration(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.WinnerTie, declaration.Winner)
		assert.False(t, declaration.IsAutomatic)
		require.NotNil(t, declaration.ProcessedScheduleID)
		assert.Equal(t, schedule.ID, *declaration.ProcessedScheduleID)
	})

	t.Run("reset clears votes and winner", func(t *testing.T) {
		require.NoError(t, election.Reset(ctx))

		count, err := votes.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		declaration, err := election.GetDeclaration(ctx)
		require.NoError(t, err)
		assert.False(t, declaration.Declared())

		studentCount, err := students.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, studentCount)
	})

	t.Run("delete all students clears everything", func(t *testing.T) {
		require.NoError(t, votes.Insert(ctx, &domain.Vote{RegisterNumber: "REG001", Candidate: domain.CandidateB, CastAt: now}))
		require.NoError(t, students.DeleteAll(ctx))

		studentCount, err := students.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, studentCount)

		voteCount, err := votes.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, voteCount)
	})
}

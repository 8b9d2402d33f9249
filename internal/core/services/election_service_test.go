package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

func castVotes(t *testing.T, app *testApp, votes map[string]domain.Candidate) {
	t.Helper()
	for regNo, candidate := range votes {
		app.register(t, regNo, "Student "+regNo)
		_, err := app.Ballot.CastVote(context.Background(), regNo, candidate)
		require.NoError(t, err)
	}
}

func TestResults(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, false)

	castVotes(t, app, map[string]domain.Candidate{
		"REG001": domain.CandidateA,
		"REG002": domain.CandidateA,
		"REG003": domain.CandidateB,
	})

	results, err := app.Election.Results(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, results.Tally[domain.CandidateA])
	assert.Equal(t, 1, results.Tally[domain.CandidateB])
	assert.Equal(t, 3, results.TotalVotes)
	assert.Equal(t, domain.WinnerA, results.Leader)
	assert.False(t, results.Declaration.Declared())
	assert.Equal(t, domain.StatusActive, results.Window.Status)
}

func TestAutoDeclaration(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, true)

	castVotes(t, app, map[string]domain.Candidate{
		"REG001": domain.CandidateB,
		"REG002": domain.CandidateB,
		"REG003": domain.CandidateA,
	})

	declaration, err := app.Election.Declaration(ctx)
	require.NoError(t, err)
	assert.False(t, declaration.Declared(), "window still active")

	app.Clock.Advance(time.Hour + time.Second)

	declaration, err = app.Election.Declaration(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.WinnerB, declaration.Winner)
	assert.True(t, declaration.IsAutomatic)

	_, fired, err := app.Election.AutoDeclare(ctx)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestAutoDeclarationWithNoVotesIsATie(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, true)
	app.Clock.Advance(2 * time.Hour)

	declaration, fired, err := app.Election.AutoDeclare(ctx)
	require.NoError(t, err)
	require.True(t, fired)
	assert.Equal(t, domain.WinnerTie, declaration.Winner)
}

func TestConcurrentAutoDeclarationFiresOnce(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, true)
	castVotes(t, app, map[string]domain.Candidate{"REG001": domain.CandidateA})
	app.Clock.Advance(2 * time.Hour)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fires int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, fired, err := app.Election.AutoDeclare(ctx)
			assert.NoError(t, err)
			if fired {
				mu.Lock()
				fires++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fires)
}

func TestManualDeclarationIsNotOverwritten(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, true)
	castVotes(t, app, map[string]domain.Candidate{"REG001": domain.CandidateA})

	declaration, err := app.Election.DeclareWinner(ctx, domain.WinnerB)
	require.NoError(t, err)
	assert.Equal(t, domain.WinnerB, declaration.Winner)
	assert.False(t, declaration.IsAutomatic)

	app.Clock.Advance(2 * time.Hour)

	declaration, err = app.Election.Declaration(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.WinnerB, declaration.Winner)
	assert.False(t, declaration.IsAutomatic)
}

func TestDeclareWinnerRejectsUnknownWinner(t *testing.T) {
	app := setupTestApp(t)

	_, err := app.Election.DeclareWinner(context.Background(), domain.Winner("C"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetDeclarationDoesNotRefire(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, true)
	app.Clock.Advance(2 * time.Hour)

	_, fired, err := app.Election.AutoDeclare(ctx)
	require.NoError(t, err)
	require.True(t, fired)

	require.NoError(t, app.Election.ResetDeclaration(ctx))

	declaration, err := app.Election.Declaration(ctx)
	require.NoError(t, err)
	assert.False(t, declaration.Declared())

	t.Run("a new schedule re-arms auto declaration", func(t *testing.T) {
		app.openWindow(t, true)
		app.Clock.Advance(2 * time.Hour)

		declaration, err := app.Election.Declaration(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.WinnerTie, declaration.Winner)
	})
}

func TestResetElection(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	app.openWindow(t, false)
	castVotes(t, app, map[string]domain.Candidate{
		"REG001": domain.CandidateA,
		"REG002": domain.CandidateB,
	})
	_, err := app.Election.DeclareWinner(ctx, domain.WinnerTie)
	require.NoError(t, err)

	require.NoError(t, app.Election.ResetElection(ctx))

	tally, err := app.Election.Tally(ctx)
	require.NoError(t, err)
	assert.Zero(t, tally.Total())

	declaration, err := app.Election.Declaration(ctx)
	require.NoError(t, err)
	assert.False(t, declaration.Declared())

	students, err := app.Ballot.StudentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, students)

	hasVoted, err := app.Ballot.HasVoted(ctx, "REG001")
	require.NoError(t, err)
	assert.False(t, hasVoted)

	assert.Contains(t, app.Publisher.Types(), domain.EventElectionReset)
}

package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type testApp struct {
	Clock     *fakeClock
	Publisher *recordingPublisher
	Ballot    ports.BallotService
	Window    ports.WindowService
	Election  ports.ElectionService
	Schedules ports.ScheduleRepository
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "election.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.CreateSchema(ctx, db))

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, loc)}
	publisher := &recordingPublisher{}
	logger := discardLogger()

	students := sqlite.NewStudentRepository(db, loc)
	votes := sqlite.NewVoteRepository(db, loc)
	schedules := sqlite.NewScheduleRepository(db, loc)
	election := sqlite.NewElectionRepository(db, loc)

	return &testApp{
		Clock:     clock,
		Publisher: publisher,
		Ballot:    services.NewBallotService(students, votes, schedules, clock, publisher, logger),
		Window:    services.NewWindowService(schedules, clock, publisher, logger),
		Election:  services.NewElectionService(election, votes, schedules, clock, publisher, logger),
		Schedules: schedules,
	}
}

// openWindow opens voting for an hour starting at the clock's now.
func (a *testApp) openWindow(t *testing.T, autoDeclare bool) *domain.Schedule {
	t.Helper()
	schedule, err := a.Window.OpenFor(context.Background(), time.Hour, autoDeclare)
	require.NoError(t, err)
	return schedule
}

func (a *testApp) register(t *testing.T, registerNumber, name string) {
	t.Helper()
	_, err := a.Ballot.Register(context.Background(), registerNumber, name)
	require.NoError(t, err)
}

var errPublish = errors.New("broker unavailable")

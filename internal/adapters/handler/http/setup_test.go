package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
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

type testApp struct {
	Server *httptest.Server
	Clock  *fakeClock
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
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	students := sqlite.NewStudentRepository(db, loc)
	votes := sqlite.NewVoteRepository(db, loc)
	schedules := sqlite.NewScheduleRepository(db, loc)
	election := sqlite.NewElectionRepository(db, loc)

	ballot := services.NewBallotService(students, votes, schedules, clock, nil, logger)
	window := services.NewWindowService(schedules, clock, nil, logger)
	elections := services.NewElectionService(election, votes, schedules, clock, nil, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := services.NewAuthService(services.AuthConfig{
		Username:     "admin",
		PasswordHash: hash,
		Secret:       []byte("test-secret"),
		TokenTTL:     time.Hour,
	}, clock, logger)
	require.NoError(t, err)

	router := handler.NewHandler(handler.Handlers{
		Auth:     handler.NewAuthHandler(auth, auth.TokenTTL(), "", false, logger),
		Students: handler.NewStudentHandler(ballot, logger),
		Votes:    handler.NewVoteHandler(ballot, logger),
		Window:   handler.NewWindowHandler(window, loc, logger),
		Election: handler.NewElectionHandler(elections, loc, logger),
	}, auth)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{Server: server, Clock: clock}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

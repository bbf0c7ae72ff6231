package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lizdek/lizdek-api/pkg/adapters/repository/sqlstore"
	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/config"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/core/services"
	"github.com/lizdek/lizdek-api/pkg/logging"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	t      *testing.T
	router http.Handler
	store  *sqlstore.Store
	tokens *auth.TokenService

	admin      *domain.User
	fan        *domain.User
	adminToken string
	fanToken   string
}

func testConfig(appEnv string) *config.Config {
	return &config.Config{
		Port:            "0",
		AppEnv:          appEnv,
		Version:         "test",
		JWTSecret:       testSecret,
		AllowedOrigins:  []string{"http://localhost:5173"},
		LoginRateLimit:  5,
		LoginRateWindow: 15 * time.Minute,
	}
}

// newTestEnv wires the real services over a temporary SQLite file with an
// admin and a regular user already provisioned.
func newTestEnv(t *testing.T, cfg *config.Config, now func() time.Time) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlstore.New(ctx, filepath.Join(t.TempDir(), "api.db"), sqlstore.Options{})
	if err != nil {
		t.Fatalf("sqlstore.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{t: t, store: store, tokens: tokens}
	env.admin = env.createUser("admin", "admin-password", domain.RoleAdmin)
	env.fan = env.createUser("fan", "fan-password", domain.RoleUser)
	env.adminToken = env.issue(env.admin)
	env.fanToken = env.issue(env.fan)

	shows := services.NewShowService(store)
	if now != nil {
		shows.WithClock(now)
	}

	env.router = NewRouter(Deps{
		Config:   cfg,
		Logger:   discardLogger(),
		Auth:     services.NewAuthService(store, tokens),
		Releases: services.NewReleaseService(store, nil),
		Shows:    shows,
		DB:       store,
	})
	return env
}

func (e *testEnv) createUser(username, password string, role domain.Role) *domain.User {
	e.t.Helper()
	hash, err := auth.HashPasswordCost(password, 4)
	if err != nil {
		e.t.Fatal(err)
	}
	u := &domain.User{Username: username, PasswordHash: hash, Role: role}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		e.t.Fatal(err)
	}
	return u
}

func (e *testEnv) issue(u *domain.User) string {
	e.t.Helper()
	token, err := e.tokens.Issue(u)
	if err != nil {
		e.t.Fatal(err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token. An empty
// token sends no Authorization header.
func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	got := decodeBody[errorResponse](t, rec)
	if got.Error != msg {
		t.Errorf("error = %q, want %q", got.Error, msg)
	}
}

func (e *testEnv) countRows(table string) int {
	e.t.Helper()
	var n int
	if err := e.store.DB().QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		e.t.Fatal(err)
	}
	return n
}

func (e *testEnv) mustAuthService() *services.AuthService {
	return services.NewAuthService(e.store, e.tokens)
}

func discardLogger() *log.Logger {
	return logging.New(io.Discard, "error", "text", "test")
}

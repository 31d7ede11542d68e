// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil holds helpers shared by handler and router tests.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/wellness-api/auth"
	"github.com/danielhkuo/wellness-api/cliparse"
	"github.com/danielhkuo/wellness-api/db"
	"github.com/danielhkuo/wellness-api/middleware"
)

// TestJWTSecret signs every token minted by these helpers
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB opens a fresh SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	url := "file:" + filepath.Join(t.TempDir(), "wellness.db") + "?_pragma=foreign_keys(1)"

	conn, err := db.Open(ctx, cliparse.DatabaseSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// NewMockDB returns a sqlmock-backed database for failure paths.
// Expectations are verified when the test ends.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet sqlmock expectations: %v", err)
		}
		conn.Close()
	})
	return conn, mock
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		JWTSecret:    TestJWTSecret,
		JWTAudience:  "authenticated",
		RateLimit:    30,
		CacheTTL:     5 * time.Minute,
		MinGroupSize: 3,
		LogLevel:     "debug",
		LogFormat:    "console",
	}
}

// BearerHeader mints a valid token for subject and returns it as request headers
func BearerHeader(t *testing.T, cfg cliparse.Config, subject, appRole string) map[string]string {
	t.Helper()

	token, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience).Issue(subject, subject+"@example.com", appRole, time.Hour)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// AsUser attaches claims for subject directly, skipping token verification
func AsUser(r *http.Request, subject, appRole string) *http.Request {
	claims := &auth.Claims{
		AppRole:          appRole,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// WithURLParams sets chi URL parameters on a request built outside the router
func WithURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// CreateTestTeam inserts a team managed by managerID and returns its ID
func CreateTestTeam(t *testing.T, conn *sql.DB, name, managerID string) string {
	t.Helper()

	teamID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO team (id, name, manager_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, teamID, name, managerID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}
	return teamID
}

// AddTestMember adds userID to a team
func AddTestMember(t *testing.T, conn *sql.DB, teamID, userID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO team_member (team_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`, teamID, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// InsertTestAssessment stores a scored result without recommendations
func InsertTestAssessment(t *testing.T, conn *sql.DB, userID, instrument string, score int, level string, at time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO assessment_response (id, user_id, instrument, answers, score, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, userID, instrument, "[]", score, level, at.UTC())
	if err != nil {
		t.Fatalf("Failed to insert test assessment: %v", err)
	}
	return id
}

// InsertTestSession stores a module session
func InsertTestSession(t *testing.T, conn *sql.DB, userID, module string, before, after *int, at time.Time) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO module_session (id, user_id, module_code, duration_seconds, mood_before, mood_after, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), userID, module, 300, before, after, at.UTC())
	if err != nil {
		t.Fatalf("Failed to insert test session: %v", err)
	}
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

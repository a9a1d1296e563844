// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/civic-vote/auth"
	"github.com/danielhkuo/civic-vote/cliparse"
	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password of every fixture user.
const TestPassword = "password123"

// TestSecret signs fixture tokens.
const TestSecret = "test-jwt-secret"

// SetupTestDB returns a fresh database with the full schema.
//
// By default it is a SQLite file in t.TempDir(). If TEST_DATABASE_URL is
// set, that PostgreSQL database is used instead and its tables are
// dropped and recreated.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	var conn *sql.DB
	var err error
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		conn, err = db.Open(db.DialectPostgres, url)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		// Clean up tables before each test
		if err := db.DropSchema(conn); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	} else {
		conn, err = db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: db.DialectSQLite,
		JWTSecret:    TestSecret,
		TokenTTL:     time.Hour,
		AdminName:    "Administrator",
	}
}

// UserOpts tweaks a fixture user. Zero values get defaults: role voter,
// status active, no age.
type UserOpts struct {
	Role   string
	Status string
	Age    *int
}

// CreateTestUser inserts a user with TestPassword and returns it.
func CreateTestUser(t *testing.T, conn *sql.DB, nationalID string, opts UserOpts) models.User {
	t.Helper()

	hash, err := auth.HashPasswordCost(TestPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := models.User{
		NationalID:   nationalID,
		PasswordHash: hash,
		FullName:     "User " + nationalID,
		Age:          opts.Age,
		Role:         opts.Role,
		Status:       opts.Status,
	}
	if u.Role == "" {
		u.Role = models.RoleVoter
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if err := db.NewStore(conn).CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestPoll creates an active poll owned by creatorID ending at
// endDate. minAge nil means no age threshold.
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID string, endDate time.Time, minAge *int) models.Poll {
	t.Helper()

	p := models.Poll{
		Title:       "Test Poll",
		Description: "A test poll",
		CreatedBy:   creatorID,
		EndDate:     endDate,
		MinAge:      minAge,
		IsActive:    true,
	}
	if err := db.NewStore(conn).CreatePoll(context.Background(), &p); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return p
}

// AddTestCandidate adds a candidate to a poll and returns it
func AddTestCandidate(t *testing.T, conn *sql.DB, pollID, name string) models.Candidate {
	t.Helper()

	c := models.Candidate{PollID: pollID, Name: name, Party: "Independent"}
	if err := db.NewStore(conn).CreateCandidate(context.Background(), &c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c
}

// CastTestBallot writes a ballot directly, skipping eligibility checks.
func CastTestBallot(t *testing.T, conn *sql.DB, pollID, candidateID, userID string) models.Ballot {
	t.Helper()

	b := models.Ballot{
		ID:          db.NewID(),
		PollID:      pollID,
		CandidateID: candidateID,
		UserID:      userID,
		CastAt:      time.Now(),
	}
	if err := db.NewStore(conn).InsertBallot(context.Background(), b); err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return b
}

// TokenFor returns a bearer token for userID signed with TestSecret.
func TokenFor(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.IssueToken(userID, []byte(TestSecret), time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// AuthHeader returns the Authorization header for userID.
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + TokenFor(t, userID)}
}

// IntPtr returns &n.
func IntPtr(n int) *int {
	return &n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
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

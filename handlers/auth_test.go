// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/civic-vote/auth"
	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/testutil"
)

func TestSignUp(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAuthHandler(db.NewStore(conn), testutil.GetTestConfig())

	age := 34
	testCases := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantRole   string
		wantState  string
	}{
		{
			name:       "voter is active immediately",
			body:       models.SignUpRequest{NationalID: "N1", Password: "longenough", FullName: "Ada", Age: &age},
			wantStatus: http.StatusCreated,
			wantRole:   models.RoleVoter,
			wantState:  models.StatusActive,
		},
		{
			name:       "supervisor waits for approval",
			body:       models.SignUpRequest{NationalID: "N2", Password: "longenough", FullName: "Bo", Role: models.RoleSupervisor, Email: "bo@example.org"},
			wantStatus: http.StatusCreated,
			wantRole:   models.RoleSupervisor,
			wantState:  models.StatusPending,
		},
		{
			name:       "duplicate national id",
			body:       models.SignUpRequest{NationalID: "N1", Password: "longenough", FullName: "Ada again"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "duplicate email",
			body:       models.SignUpRequest{NationalID: "N3", Password: "longenough", FullName: "Cy", Email: "bo@example.org"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "cannot self-register as admin",
			body:       models.SignUpRequest{NationalID: "N4", Password: "longenough", FullName: "Eve", Role: models.RoleAdmin},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       models.SignUpRequest{NationalID: "N5", Password: "short", FullName: "Dee"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			body:       models.SignUpRequest{NationalID: "N6", Password: "longenough"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/signup", tc.body, nil)
			w := httptest.NewRecorder()

			handler.SignUp(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantStatus != http.StatusCreated {
				return
			}

			var user models.User
			testutil.AssertJSON(t, w, &user)
			if user.Role != tc.wantRole || user.Status != tc.wantState {
				t.Errorf("Expected %s/%s, got %s/%s", tc.wantRole, tc.wantState, user.Role, user.Status)
			}
		})
	}
}

func TestSignUp_NeverReturnsHash(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAuthHandler(db.NewStore(conn), testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/auth/signup",
		models.SignUpRequest{NationalID: "N1", Password: "longenough", FullName: "Ada"}, nil)
	w := httptest.NewRecorder()
	handler.SignUp(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "$2") {
		t.Errorf("Response leaks password material: %s", w.Body.String())
	}
}

func TestSignIn(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAuthHandler(db.NewStore(conn), testutil.GetTestConfig())

	active := testutil.CreateTestUser(t, conn, "ACTIVE", testutil.UserOpts{})
	testutil.CreateTestUser(t, conn, "SUSPENDED", testutil.UserOpts{Status: models.StatusSuspended})

	testCases := []struct {
		name       string
		nationalID string
		password   string
		wantStatus int
	}{
		{"valid", "ACTIVE", testutil.TestPassword, http.StatusOK},
		{"wrong password", "ACTIVE", "nope-nope", http.StatusUnauthorized},
		{"unknown user", "GHOST", testutil.TestPassword, http.StatusUnauthorized},
		{"suspended", "SUSPENDED", testutil.TestPassword, http.StatusForbidden},
		{"missing fields", "", "", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/signin",
				models.SignInRequest{NationalID: tc.nationalID, Password: tc.password}, nil)
			w := httptest.NewRecorder()

			handler.SignIn(w, req)

			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantStatus != http.StatusOK {
				return
			}

			var resp models.SignInResponse
			testutil.AssertJSON(t, w, &resp)
			userID, err := auth.ParseToken(resp.Token, []byte(testutil.TestSecret))
			if err != nil {
				t.Fatalf("Issued token does not parse: %v", err)
			}
			if userID != active.ID || resp.User.ID != active.ID {
				t.Errorf("Expected user %s, got token %s / user %s", active.ID, userID, resp.User.ID)
			}
		})
	}
}

func TestProfileAndSignOut(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAuthHandler(db.NewStore(conn), testutil.GetTestConfig())
	user := testutil.CreateTestUser(t, conn, "ME", testutil.UserOpts{Age: testutil.IntPtr(41)})

	w := httptest.NewRecorder()
	handler.Profile(w, asUser(user, "GET", "/api/auth/profile", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.User
	testutil.AssertJSON(t, w, &got)
	if got.ID != user.ID || got.Age == nil || *got.Age != 41 {
		t.Errorf("Unexpected profile: %+v", got)
	}

	w = httptest.NewRecorder()
	handler.SignOut(w, asUser(user, "POST", "/api/auth/signout", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestEnsureAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	cfg := testutil.GetTestConfig()

	// Not configured: no-op
	if err := EnsureAdmin(ctx, store, cfg); err != nil {
		t.Fatalf("EnsureAdmin() without config error = %v", err)
	}

	cfg.AdminNationalID = "ROOT"
	cfg.AdminPassword = "root-password"

	for i := 0; i < 2; i++ {
		if err := EnsureAdmin(ctx, store, cfg); err != nil {
			t.Fatalf("EnsureAdmin() call %d error = %v", i+1, err)
		}
	}

	admin, err := store.GetUserByNationalID(ctx, "ROOT")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != models.RoleAdmin || admin.Status != models.StatusActive {
		t.Errorf("Expected active admin, got %s/%s", admin.Role, admin.Status)
	}
	if err := auth.CheckPassword(admin.PasswordHash, "root-password"); err != nil {
		t.Error("admin password not set")
	}

	users, err := store.ListUsers(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("Expected exactly one user after two calls, got %d", len(users))
	}
}

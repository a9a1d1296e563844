// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/testutil"
)

func TestAddCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCandidateHandler(db.NewStore(conn))

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	other := testutil.CreateTestUser(t, conn, "OTHER", testutil.UserOpts{Role: models.RoleSupervisor})
	admin := testutil.CreateTestUser(t, conn, "ADMIN", testutil.UserOpts{Role: models.RoleAdmin})
	poll := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)

	photo := "https://example.org/a.jpg"
	testCases := []struct {
		name   string
		user   models.User
		pollID string
		body   interface{}
		status int
	}{
		{"owner adds", owner, poll.ID, models.CreateCandidateRequest{Name: "Ana", Party: "Green", PhotoURL: &photo}, http.StatusCreated},
		{"admin adds", admin, poll.ID, models.CreateCandidateRequest{Name: "Ben", Party: "Blue"}, http.StatusCreated},
		{"other supervisor refused", other, poll.ID, models.CreateCandidateRequest{Name: "Cal", Party: "Red"}, http.StatusForbidden},
		{"missing party", owner, poll.ID, models.CreateCandidateRequest{Name: "Dot"}, http.StatusBadRequest},
		{"missing name", owner, poll.ID, models.CreateCandidateRequest{Party: "Red"}, http.StatusBadRequest},
		{"unknown poll", owner, "nope", models.CreateCandidateRequest{Name: "Eli", Party: "Red"}, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := asUser(tc.user, "POST", "/api/candidates/poll/"+tc.pollID, tc.body)
			req.SetPathValue("pollId", tc.pollID)
			w := httptest.NewRecorder()

			handler.AddCandidate(w, req)

			testutil.AssertStatus(t, w, tc.status)
		})
	}

	// Listing keeps insertion order
	req := asUser(owner, "GET", "/api/candidates/poll/"+poll.ID, nil)
	req.SetPathValue("pollId", poll.ID)
	w := httptest.NewRecorder()
	handler.ListCandidates(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Candidate
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 || list[0].Name != "Ana" || list[1].Name != "Ben" {
		t.Fatalf("Unexpected candidate list: %+v", list)
	}
	if list[0].Position >= list[1].Position {
		t.Errorf("Expected increasing positions, got %d then %d", list[0].Position, list[1].Position)
	}
	if list[0].PhotoURL == nil || *list[0].PhotoURL != photo {
		t.Errorf("Expected photo URL to round-trip, got %v", list[0].PhotoURL)
	}
}

func TestListCandidates_UnknownPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCandidateHandler(db.NewStore(conn))
	voter := testutil.CreateTestUser(t, conn, "V", testutil.UserOpts{})

	req := asUser(voter, "GET", "/api/candidates/poll/nope", nil)
	req.SetPathValue("pollId", "nope")
	w := httptest.NewRecorder()
	handler.ListCandidates(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCandidateHandler(db.NewStore(conn))

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	other := testutil.CreateTestUser(t, conn, "OTHER", testutil.UserOpts{Role: models.RoleSupervisor})
	voter := testutil.CreateTestUser(t, conn, "V", testutil.UserOpts{})
	poll := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)

	unvoted := testutil.AddTestCandidate(t, conn, poll.ID, "Unvoted")
	voted := testutil.AddTestCandidate(t, conn, poll.ID, "Voted")
	testutil.CastTestBallot(t, conn, poll.ID, voted.ID, voter.ID)

	testCases := []struct {
		name   string
		user   models.User
		id     string
		status int
	}{
		{"other supervisor refused", other, unvoted.ID, http.StatusForbidden},
		{"candidate with votes kept", owner, voted.ID, http.StatusConflict},
		{"owner removes", owner, unvoted.ID, http.StatusOK},
		{"already removed", owner, unvoted.ID, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := asUser(tc.user, "DELETE", "/api/candidates/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			w := httptest.NewRecorder()

			handler.DeleteCandidate(w, req)

			testutil.AssertStatus(t, w, tc.status)
		})
	}
}

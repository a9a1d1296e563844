// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	// SetupTestDB already ran it once
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	if _, err := db.Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported dialect")
	}
}

func TestUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	email := "ada@example.org"
	u := models.User{
		NationalID:   "ID-1",
		Email:        &email,
		PasswordHash: "hash",
		FullName:     "Ada",
		Age:          testutil.IntPtr(36),
		Role:         models.RoleVoter,
		Status:       models.StatusActive,
	}
	if err := store.CreateUser(ctx, &u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser() did not fill ID/CreatedAt: %+v", u)
	}

	got, err := store.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.NationalID != "ID-1" || got.Email == nil || *got.Email != email || got.Age == nil || *got.Age != 36 || got.Phone != nil {
		t.Errorf("GetUser() = %+v", got)
	}

	byNID, err := store.GetUserByNationalID(ctx, "ID-1")
	if err != nil || byNID.ID != u.ID {
		t.Errorf("GetUserByNationalID() = %+v, %v", byNID, err)
	}

	dup := models.User{NationalID: "ID-1", PasswordHash: "h", FullName: "Copy", Role: models.RoleVoter, Status: models.StatusActive}
	if err := store.CreateUser(ctx, &dup); !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("duplicate national id error = %v, want ErrDuplicate", err)
	}

	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}

	updated, err := store.UpdateUserStatus(ctx, u.ID, models.StatusSuspended, time.Now())
	if err != nil {
		t.Fatalf("UpdateUserStatus() error = %v", err)
	}
	if updated.Status != models.StatusSuspended {
		t.Errorf("status = %s, want suspended", updated.Status)
	}
	if _, err := store.UpdateUserStatus(ctx, "missing", models.StatusActive, time.Now()); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("UpdateUserStatus(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPolls(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	other := testutil.CreateTestUser(t, conn, "OTHER", testutil.UserOpts{Role: models.RoleSupervisor})

	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	p := testutil.CreateTestPoll(t, conn, owner.ID, end, testutil.IntPtr(18))
	time.Sleep(5 * time.Millisecond)
	q := testutil.CreateTestPoll(t, conn, other.ID, end, nil)

	got, err := store.GetPoll(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPoll() error = %v", err)
	}
	if !got.EndDate.Equal(end) || got.MinAge == nil || *got.MinAge != 18 || !got.IsActive || got.CreatorName != owner.FullName {
		t.Errorf("GetPoll() = %+v", got)
	}

	all, err := store.ListPolls(ctx, db.PollFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != q.ID {
		t.Errorf("ListPolls() should return newest first, got %d polls", len(all))
	}

	own, err := store.ListPolls(ctx, db.PollFilter{CreatedBy: owner.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].ID != p.ID {
		t.Errorf("ListPolls(CreatedBy) = %+v", own)
	}

	got.IsActive = false
	got.MinAge = nil
	got.Title = "Changed"
	if err := store.UpdatePoll(ctx, &got, time.Now()); err != nil {
		t.Fatalf("UpdatePoll() error = %v", err)
	}

	active, err := store.ListPolls(ctx, db.PollFilter{ActiveOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != q.ID {
		t.Errorf("ListPolls(ActiveOnly) = %+v", active)
	}

	reread, _ := store.GetPoll(ctx, p.ID)
	if reread.Title != "Changed" || reread.MinAge != nil || reread.IsActive {
		t.Errorf("UpdatePoll() not persisted: %+v", reread)
	}

	missing := models.Poll{ID: "missing", EndDate: end}
	if err := store.UpdatePoll(ctx, &missing, time.Now()); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("UpdatePoll(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.DeletePoll(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("DeletePoll(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeletePoll_CascadesCandidatesButNotBallots(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	voter := testutil.CreateTestUser(t, conn, "V", testutil.UserOpts{})
	end := time.Now().Add(time.Hour)

	empty := testutil.CreateTestPoll(t, conn, owner.ID, end, nil)
	c := testutil.AddTestCandidate(t, conn, empty.ID, "Gone")
	if err := store.DeletePoll(ctx, empty.ID); err != nil {
		t.Fatalf("DeletePoll() error = %v", err)
	}
	if _, err := store.GetCandidate(ctx, c.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("candidate should cascade, got %v", err)
	}

	voted := testutil.CreateTestPoll(t, conn, owner.ID, end, nil)
	vc := testutil.AddTestCandidate(t, conn, voted.ID, "Kept")
	testutil.CastTestBallot(t, conn, voted.ID, vc.ID, voter.ID)

	if err := store.DeletePoll(ctx, voted.ID); !errors.Is(err, db.ErrForeignKey) {
		t.Errorf("DeletePoll(with ballots) error = %v, want ErrForeignKey", err)
	}
	if err := store.DeleteCandidate(ctx, vc.ID); !errors.Is(err, db.ErrForeignKey) {
		t.Errorf("DeleteCandidate(with ballots) error = %v, want ErrForeignKey", err)
	}
}

func TestCandidates_PositionsPerPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	p1 := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)
	p2 := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)

	a := testutil.AddTestCandidate(t, conn, p1.ID, "A")
	b := testutil.AddTestCandidate(t, conn, p1.ID, "B")
	x := testutil.AddTestCandidate(t, conn, p2.ID, "X")

	if a.Position != 1 || b.Position != 2 || x.Position != 1 {
		t.Errorf("positions = %d, %d, %d; want 1, 2, 1", a.Position, b.Position, x.Position)
	}

	list, err := store.ListCandidates(ctx, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("ListCandidates() = %+v", list)
	}

	orphan := models.Candidate{PollID: "missing", Name: "N", Party: "P"}
	if err := store.CreateCandidate(ctx, &orphan); !errors.Is(err, db.ErrForeignKey) {
		t.Errorf("CreateCandidate(missing poll) error = %v, want ErrForeignKey", err)
	}
}

func TestCandidates_ConcurrentInsertsGetDistinctPositions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	poll := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := models.Candidate{PollID: poll.ID, Name: "C" + string(rune('0'+i)), Party: "P"}
			errs <- store.CreateCandidate(context.Background(), &c)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("CreateCandidate() error = %v", err)
		}
	}

	list, err := store.ListCandidates(context.Background(), poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, c := range list {
		if seen[c.Position] {
			t.Errorf("position %d assigned twice", c.Position)
		}
		seen[c.Position] = true
	}
	if len(list) != n {
		t.Errorf("expected %d candidates, got %d", n, len(list))
	}
}

func TestBallots(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "OWNER", testutil.UserOpts{Role: models.RoleSupervisor})
	voter := testutil.CreateTestUser(t, conn, "V", testutil.UserOpts{})
	p1 := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)
	p2 := testutil.CreateTestPoll(t, conn, owner.ID, time.Now().Add(time.Hour), nil)
	c1 := testutil.AddTestCandidate(t, conn, p1.ID, "c1")
	c2 := testutil.AddTestCandidate(t, conn, p2.ID, "c2")

	has, err := store.HasBallot(ctx, p1.ID, voter.ID)
	if err != nil || has {
		t.Fatalf("HasBallot() before voting = %v, %v", has, err)
	}

	b := models.Ballot{ID: db.NewID(), PollID: p1.ID, CandidateID: c1.ID, UserID: voter.ID, CastAt: time.Now()}
	if err := store.InsertBallot(ctx, b); err != nil {
		t.Fatalf("InsertBallot() error = %v", err)
	}

	has, err = store.HasBallot(ctx, p1.ID, voter.ID)
	if err != nil || !has {
		t.Errorf("HasBallot() after voting = %v, %v", has, err)
	}

	again := b
	again.ID = db.NewID()
	if err := store.InsertBallot(ctx, again); !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("second InsertBallot() error = %v, want ErrDuplicate", err)
	}

	cross := models.Ballot{ID: db.NewID(), PollID: p1.ID, CandidateID: c2.ID, UserID: owner.ID, CastAt: time.Now()}
	if err := store.InsertBallot(ctx, cross); !errors.Is(err, db.ErrForeignKey) {
		t.Errorf("cross-poll InsertBallot() error = %v, want ErrForeignKey", err)
	}

	votes, err := store.ListUserVotes(ctx, voter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 1 || votes[0].PollID != p1.ID {
		t.Errorf("ListUserVotes() = %+v", votes)
	}

	rows, err := store.TallyPoll(ctx, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].CandidateID != c1.ID || rows[0].Count != 1 || rows[0].Position != 1 {
		t.Errorf("TallyPoll() = %+v", rows)
	}

	empty, err := store.TallyPoll(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("TallyPoll(missing) = %+v, want empty", empty)
	}
}

func TestErrorTranslation_KeepsDriverMessage(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn)

	u := models.User{NationalID: "X", PasswordHash: "h", FullName: "X", Role: models.RoleVoter, Status: models.StatusActive}
	if err := store.CreateUser(context.Background(), &u); err != nil {
		t.Fatal(err)
	}
	u.ID = ""
	err := store.CreateUser(context.Background(), &u)
	if !db.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false", err)
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") && !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("wrapped error lost driver detail: %v", err)
	}
}

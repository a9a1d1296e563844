// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/voting"
)

type VoteHandler struct {
	svc   *voting.Service
	store *db.Store
}

func NewVoteHandler(svc *voting.Service, store *db.Store) *VoteHandler {
	return &VoteHandler{svc: svc, store: store}
}

// CastVote handles POST /api/votes
//
// The voter is always the authenticated user; any user field in the body
// is ignored.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PollID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId and candidateId are required")
		return
	}

	ballot, err := h.svc.CastVote(r.Context(), user, req.PollID, req.CandidateID)
	if err != nil {
		if !errors.Is(err, voting.ErrPersistence) {
			slog.Info("vote rejected", "reason", voting.Code(err), "poll_id", req.PollID, "user_id", user.ID)
		}
		middleware.VotingError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Ballot:  ballot,
		Message: "Vote recorded",
	})
}

// MyVotes handles GET /api/votes/my-votes
func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	votes, err := h.store.ListUserVotes(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}

// Counts handles GET /api/votes/poll/{pollId}/counts
func (h *VoteHandler) Counts(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	rows, err := h.svc.Tally(r.Context(), user, r.PathValue("pollId"))
	if err != nil {
		middleware.VotingError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rows)
}

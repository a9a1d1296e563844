// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
)

type CandidateHandler struct {
	store *db.Store
}

func NewCandidateHandler(store *db.Store) *CandidateHandler {
	return &CandidateHandler{store: store}
}

// ListCandidates handles GET /api/candidates/poll/{pollId}
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	poll, ok := loadPoll(w, r, h.store, r.PathValue("pollId"))
	if !ok {
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), poll.ID)
	if err != nil {
		slog.Error("failed to list candidates", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// AddCandidate handles POST /api/candidates/poll/{pollId}
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	poll, ok := loadPoll(w, r, h.store, r.PathValue("pollId"))
	if !ok {
		return
	}
	if !canManage(poll, user) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll creator or an admin can add candidates")
		return
	}

	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Party = strings.TrimSpace(req.Party)
	if req.Name == "" || req.Party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and party are required")
		return
	}
	if req.Age != nil && *req.Age < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "age cannot be negative")
		return
	}

	candidate := models.Candidate{
		PollID:      poll.ID,
		Name:        req.Name,
		Party:       req.Party,
		PhotoURL:    req.PhotoURL,
		Age:         req.Age,
		Description: req.Description,
	}

	err := h.store.CreateCandidate(r.Context(), &candidate)
	if errors.Is(err, db.ErrForeignKey) {
		// Poll deleted since we loaded it
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to create candidate", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "poll_id", poll.ID, "candidate_id", candidate.ID, "position", candidate.Position)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// DeleteCandidate handles DELETE /api/candidates/{id}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	id := r.PathValue("id")

	candidate, err := h.store.GetCandidate(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	poll, ok := loadPoll(w, r, h.store, candidate.PollID)
	if !ok {
		return
	}
	if !canManage(poll, user) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll creator or an admin can remove candidates")
		return
	}

	err = h.store.DeleteCandidate(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrForeignKey):
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate has received votes and cannot be removed")
		return
	case errors.Is(err, db.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	case err != nil:
		slog.Error("failed to delete candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove candidate")
		return
	}

	slog.Info("candidate removed", "poll_id", poll.ID, "candidate_id", id, "by", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Candidate removed"})
}

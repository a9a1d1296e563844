// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/dustin/go-humanize"
)

type PollHandler struct {
	store *db.Store
	now   func() time.Time
}

func NewPollHandler(store *db.Store) *PollHandler {
	return &PollHandler{store: store, now: time.Now}
}

// ListPolls handles GET /api/polls
//
// Admins see every poll and supervisors their own. Voters see only polls
// they could vote in right now, each flagged with has_voted.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	now := h.now()

	var filter db.PollFilter
	switch user.Role {
	case models.RoleAdmin:
	case models.RoleSupervisor:
		filter.CreatedBy = user.ID
	default:
		filter.ActiveOnly = true
	}

	polls, err := h.store.ListPolls(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var voted map[string]bool
	if user.Role == models.RoleVoter {
		votes, err := h.store.ListUserVotes(r.Context(), user.ID)
		if err != nil {
			slog.Error("failed to list user votes", "error", err, "user_id", user.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voted = make(map[string]bool, len(votes))
		for _, v := range votes {
			voted[v.PollID] = true
		}
	}

	items := make([]models.PollListItem, 0, len(polls))
	for _, p := range polls {
		item := models.PollListItem{
			Poll:   p,
			Closes: humanize.RelTime(p.EndDate, now, "ago", "from now"),
		}
		if user.Role == models.RoleVoter {
			if !visibleToVoter(p, user, now) {
				continue
			}
			hasVoted := voted[p.ID]
			item.HasVoted = &hasVoted
		}
		items = append(items, item)
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// visibleToVoter hides polls the voter could not vote in: ended ones and
// ones whose age threshold the voter does not meet or cannot prove.
func visibleToVoter(p models.Poll, voter models.User, now time.Time) bool {
	if !p.IsActive || !p.EndDate.After(now) {
		return false
	}
	if p.MinAge != nil && (voter.Age == nil || *voter.Age < *p.MinAge) {
		return false
	}
	return true
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	poll, ok := h.loadPoll(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	if user.Role == models.RoleVoter && (!poll.IsActive || !poll.EndDate.After(h.now())) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Poll is not open")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.EndDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_date is required")
		return
	}
	now := h.now()
	if !req.EndDate.After(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must be in the future")
		return
	}

	minAge := models.DefaultMinAge
	if req.MinAge != nil {
		minAge = *req.MinAge
	}
	if minAge < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "min_age cannot be negative")
		return
	}

	poll := models.Poll{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   user.ID,
		CreatorName: user.FullName,
		EndDate:     req.EndDate,
		MinAge:      ageThreshold(minAge),
		IsActive:    true,
		CreatedAt:   now,
	}

	if err := h.store.CreatePoll(r.Context(), &poll); err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "created_by", user.ID,
		"closes", humanize.RelTime(poll.EndDate, now, "ago", "from now"))

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// UpdatePoll handles PATCH /api/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	poll, ok := h.loadOwnedPoll(w, r, user, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		poll.Title = title
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.EndDate != nil {
		if req.EndDate.IsZero() {
			middleware.ErrorResponse(w, http.StatusBadRequest, "end_date cannot be empty")
			return
		}
		poll.EndDate = *req.EndDate
	}
	if req.MinAge != nil {
		if *req.MinAge < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "min_age cannot be negative")
			return
		}
		poll.MinAge = ageThreshold(*req.MinAge)
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}

	err := h.store.UpdatePoll(r.Context(), &poll, h.now())
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to update poll", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	slog.Info("poll updated", "poll_id", poll.ID, "by", user.ID, "is_active", poll.IsActive)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /api/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	poll, ok := h.loadOwnedPoll(w, r, user, r.PathValue("id"))
	if !ok {
		return
	}

	err := h.store.DeletePoll(r.Context(), poll.ID)
	switch {
	case errors.Is(err, db.ErrForeignKey):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll has ballots and cannot be deleted; deactivate it instead")
		return
	case errors.Is(err, db.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	case err != nil:
		slog.Error("failed to delete poll", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
		return
	}

	slog.Info("poll deleted", "poll_id", poll.ID, "by", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Poll deleted"})
}

// loadPoll writes 404 or 500 and returns false when the poll cannot be
// loaded.
func (h *PollHandler) loadPoll(w http.ResponseWriter, r *http.Request, id string) (models.Poll, bool) {
	return loadPoll(w, r, h.store, id)
}

// loadOwnedPoll is loadPoll plus a 403 for anyone but the creator or an
// admin.
func (h *PollHandler) loadOwnedPoll(w http.ResponseWriter, r *http.Request, user models.User, id string) (models.Poll, bool) {
	poll, ok := h.loadPoll(w, r, id)
	if !ok {
		return models.Poll{}, false
	}
	if !canManage(poll, user) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll creator or an admin can do this")
		return models.Poll{}, false
	}
	return poll, true
}

func loadPoll(w http.ResponseWriter, r *http.Request, store *db.Store, id string) (models.Poll, bool) {
	poll, err := store.GetPoll(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return models.Poll{}, false
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Poll{}, false
	}
	return poll, true
}

// canManage reports whether user may edit poll or its candidates.
func canManage(poll models.Poll, user models.User) bool {
	return user.Role == models.RoleAdmin || poll.CreatedBy == user.ID
}

// ageThreshold maps 0 to "no threshold".
func ageThreshold(minAge int) *int {
	if minAge == 0 {
		return nil
	}
	return &minAge
}

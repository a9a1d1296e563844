// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
)

type UserHandler struct {
	store *db.Store
}

func NewUserHandler(store *db.Store) *UserHandler {
	return &UserHandler{store: store}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.CurrentUser(r)

	users, err := h.store.ListUsers(r.Context(), admin.ID)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// ListPending handles GET /api/users/pending
func (h *UserHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListPendingSupervisors(r.Context())
	if err != nil {
		slog.Error("failed to list pending supervisors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// UpdateStatus handles PATCH /api/users/{userId}/status
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.CurrentUser(r)
	userID := r.PathValue("userId")

	var req models.UpdateUserStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.StatusActive, models.StatusSuspended, models.StatusPending:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be active, suspended or pending")
		return
	}

	if userID == admin.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You cannot change your own status")
		return
	}

	user, err := h.store.UpdateUserStatus(r.Context(), userID, req.Status, time.Now())
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to update user status", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	slog.Info("user status changed", "user_id", userID, "status", req.Status, "by", admin.ID)

	middleware.JSONResponse(w, http.StatusOK, user)
}

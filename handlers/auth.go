// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/civic-vote/auth"
	"github.com/danielhkuo/civic-vote/cliparse"
	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
)

type AuthHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAuthHandler(store *db.Store, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{store: store, cfg: cfg}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.NationalID = strings.TrimSpace(req.NationalID)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.NationalID == "" || req.FullName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "national_id and full_name are required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
		return
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "age must be between 0 and 150")
		return
	}

	// Voters activate themselves; supervisors wait for an admin
	var status string
	switch req.Role {
	case "", models.RoleVoter:
		req.Role = models.RoleVoter
		status = models.StatusActive
	case models.RoleSupervisor:
		status = models.StatusPending
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be voter or supervisor")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		NationalID:   req.NationalID,
		Email:        optional(req.Email),
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        optional(req.Phone),
		Age:          req.Age,
		Role:         req.Role,
		Status:       status,
	}

	err = h.store.CreateUser(r.Context(), &user)
	if errors.Is(err, db.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusConflict, "National ID or email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role, "status", user.Status)

	middleware.JSONResponse(w, http.StatusCreated, user)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.NationalID == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "national_id and password are required")
		return
	}

	user, err := h.store.GetUserByNationalID(r.Context(), strings.TrimSpace(req.NationalID))
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user.Status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusForbidden, "Account is "+user.Status)
		return
	}

	token, err := auth.IssueToken(user.ID, []byte(h.cfg.JWTSecret), h.cfg.TokenTTL, time.Now())
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("user signed in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.SignInResponse{Token: token, User: user})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	middleware.JSONResponse(w, http.StatusOK, user)
}

// SignOut handles POST /api/auth/signout. Tokens are stateless; the
// client discards its copy.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Signed out"})
}

// EnsureAdmin creates the configured administrator if no user holds
// its national ID yet. It does nothing when no admin is configured.
func EnsureAdmin(ctx context.Context, store *db.Store, cfg cliparse.Config) error {
	if cfg.AdminNationalID == "" {
		return nil
	}

	_, err := store.GetUserByNationalID(ctx, cfg.AdminNationalID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		NationalID:   cfg.AdminNationalID,
		PasswordHash: hash,
		FullName:     cfg.AdminName,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	err = store.CreateUser(ctx, &admin)
	if errors.Is(err, db.ErrDuplicate) {
		// Another instance created it first
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("admin account created", "user_id", admin.ID)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

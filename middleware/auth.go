// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/danielhkuo/civic-vote/auth"
	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
)

type contextKey struct{}

// UserLookup loads a user by ID. *db.Store satisfies it.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

// Authenticate requires a valid bearer token. The user is re-read from
// the database on every request, so role, status and age always reflect
// the stored row rather than anything captured at sign-in.
func Authenticate(users UserLookup, secret []byte) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			userID, err := auth.ParseToken(token, secret)
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if errors.Is(err, db.ErrNotFound) {
				ErrorResponse(w, http.StatusUnauthorized, "User no longer exists")
				return
			}
			if err != nil {
				slog.Error("failed to load user", "error", err, "user_id", userID)
				ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}

			next(w, r.WithContext(WithUser(r.Context(), user)))
		}
	}
}

// RequireRole lets through active users holding one of roles. It must
// run after Authenticate.
func RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r)
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if user.Status != models.StatusActive {
				ErrorResponse(w, http.StatusForbidden, "Account is not active")
				return
			}
			if !slices.Contains(roles, user.Role) {
				ErrorResponse(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next(w, r)
		}
	}
}

// CurrentUser returns the user set by Authenticate.
func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(contextKey{}).(models.User)
	return user, ok
}

// WithUser returns ctx carrying user, as Authenticate would.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/polls", middleware.WithLogging(handler))

Logs method, path, status, client IP and duration_ms on completion; 5xx
responses log at error level.

# Authentication

Authenticate verifies the bearer token and loads the user from the
database on every request. RequireRole then checks role and active
status:

	authed := middleware.Authenticate(store, secret)
	h := authed(middleware.RequireRole(models.RoleAdmin)(handler))

Handlers read the caller with CurrentUser. Tests can set one directly
with WithUser.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.FrontendURL, mux),
	}

With an empty origin every origin is reflected.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
	middleware.VotingError(w, err) // status, code and retryable from the voting package
	err := middleware.ParseJSONBody(r, &req)
*/
package middleware

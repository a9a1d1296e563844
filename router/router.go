// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/civic-vote/cliparse"
	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/handlers"
	"github.com/danielhkuo/civic-vote/middleware"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/danielhkuo/civic-vote/voting"
)

func NewRouter(conn *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	store := db.NewStore(conn)
	svc := voting.NewService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg)
	pollHandler := handlers.NewPollHandler(store)
	candidateHandler := handlers.NewCandidateHandler(store)
	voteHandler := handlers.NewVoteHandler(svc, store)
	userHandler := handlers.NewUserHandler(store)

	authed := middleware.Authenticate(store, []byte(cfg.JWTSecret))
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(h)
	}
	signedIn := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(authed(h))
	}
	withRole := func(h http.HandlerFunc, roles ...string) http.HandlerFunc {
		return middleware.WithLogging(authed(middleware.RequireRole(roles...)(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
		})
	})

	// Authentication
	mux.HandleFunc("POST /api/auth/signup", public(authHandler.SignUp))
	mux.HandleFunc("POST /api/auth/signin", public(authHandler.SignIn))
	mux.HandleFunc("GET /api/auth/profile", signedIn(authHandler.Profile))
	mux.HandleFunc("POST /api/auth/signout", signedIn(authHandler.SignOut))

	// Polls
	mux.HandleFunc("GET /api/polls", signedIn(pollHandler.ListPolls))
	mux.HandleFunc("GET /api/polls/{id}", signedIn(pollHandler.GetPoll))
	mux.HandleFunc("POST /api/polls", withRole(pollHandler.CreatePoll, models.RoleSupervisor, models.RoleAdmin))
	mux.HandleFunc("PATCH /api/polls/{id}", withRole(pollHandler.UpdatePoll, models.RoleSupervisor, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/polls/{id}", withRole(pollHandler.DeletePoll, models.RoleSupervisor, models.RoleAdmin))

	// Candidates
	mux.HandleFunc("GET /api/candidates/poll/{pollId}", signedIn(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /api/candidates/poll/{pollId}", withRole(candidateHandler.AddCandidate, models.RoleSupervisor, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/candidates/{id}", withRole(candidateHandler.DeleteCandidate, models.RoleSupervisor, models.RoleAdmin))

	// Votes. Casting is not status-gated here: the eligibility check
	// reports inactive accounts with its own error code.
	mux.HandleFunc("POST /api/votes", signedIn(voteHandler.CastVote))
	mux.HandleFunc("GET /api/votes/my-votes", signedIn(voteHandler.MyVotes))
	mux.HandleFunc("GET /api/votes/poll/{pollId}/counts", signedIn(voteHandler.Counts))
	mux.HandleFunc("GET /api/votes/counts/{pollId}", signedIn(voteHandler.Counts))

	// User administration
	mux.HandleFunc("GET /api/users", withRole(userHandler.ListUsers, models.RoleAdmin))
	mux.HandleFunc("GET /api/users/pending", withRole(userHandler.ListPending, models.RoleAdmin))
	mux.HandleFunc("PATCH /api/users/{userId}/status", withRole(userHandler.UpdateStatus, models.RoleAdmin))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("civic-vote API v1"))
	})

	return mux
}

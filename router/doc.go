// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the civic-vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(conn, cfg)

# Endpoints

Public:

	GET  /health
	POST /api/auth/signup
	POST /api/auth/signin

Any signed-in user:

	GET  /api/auth/profile
	POST /api/auth/signout
	GET  /api/polls
	GET  /api/polls/{id}
	GET  /api/candidates/poll/{pollId}
	POST /api/votes
	GET  /api/votes/my-votes
	GET  /api/votes/poll/{pollId}/counts   (creator or admin)
	GET  /api/votes/counts/{pollId}        (same)

Active supervisors and admins:

	POST   /api/polls
	PATCH  /api/polls/{id}
	DELETE /api/polls/{id}
	POST   /api/candidates/poll/{pollId}
	DELETE /api/candidates/{id}

Admins:

	GET   /api/users
	GET   /api/users/pending
	PATCH /api/users/{userId}/status

POST /api/votes is not role-gated; the voting service reports a pending
or suspended account as account_not_active.
*/
package router

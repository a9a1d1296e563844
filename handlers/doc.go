// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the civic-vote API.

# Handler Types

Each handler is a struct holding the *db.Store (and config or the voting
service where needed):

  - AuthHandler: sign-up, sign-in, profile, sign-out
  - PollHandler: poll listing and lifecycle
  - CandidateHandler: candidates of a poll
  - VoteHandler: casting ballots, the caller's votes, tallies
  - UserHandler: account administration

	store := db.NewStore(conn)
	pollHandler := handlers.NewPollHandler(store)

Handlers read the caller with middleware.CurrentUser; router wraps every
non-public route in middleware.Authenticate, so the user is always set.

# Ownership

Poll edits, deletion and candidate changes are allowed to the poll's
creator and to admins. Everyone else gets 403.

# Deletion Rules

Ballots are permanent. A poll or candidate that any ballot references
cannot be deleted (409); deactivate the poll instead:

	PATCH /api/polls/{id}  {"is_active": false}

# Votes

VoteHandler is a thin layer over voting.Service. Rejections are written
with middleware.VotingError, so the body carries a stable code:

	{"error":"Bad Request","message":"already voted in this poll","code":"already_voted"}

# Bootstrap

EnsureAdmin creates the administrator named in the config at startup
when no account holds that national ID.
*/
package handlers

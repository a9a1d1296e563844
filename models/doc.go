// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignUpRequest: national_id, password, email, full_name, phone, age, role
  - SignInRequest: national_id, password
  - CreatePollRequest: title, description, end_date, min_age
  - UpdatePollRequest: any of title, description, end_date, min_age, is_active
  - CreateCandidateRequest: name, party, photo_url, age, description
  - CastVoteRequest: pollId, candidateId
  - UpdateUserStatusRequest: status

# Response Types

  - SignInResponse: token, user
  - CastVoteResponse: the recorded ballot plus a message
  - MessageResponse, HealthResponse
  - ErrorResponse: error, message, code, retryable

# Domain Types

  - User: citizen, supervisor or administrator account
  - Poll: title, end date, optional minimum age, activation flag
  - PollListItem: a poll plus the humanized closing time and has_voted
  - Candidate: belongs to exactly one poll, ordered by position
  - Ballot: one per (poll, user), immutable once cast
  - MyVote: poll id and cast time of one of the caller's ballots
  - TallyRow: per-candidate vote count

# Constants

Roles:

	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleVoter      = "voter"

Account status:

	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"

Voters self-activate on sign-up; supervisors stay pending until an
administrator approves them.
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting admits ballots and counts them.

# Casting a Ballot

	svc := voting.NewService(db.NewStore(conn))
	ballot, err := svc.CastVote(ctx, user, pollID, candidateID)

CastVote runs these steps in order and stops at the first failure:

 1. Poll exists and is active              ErrPollUnavailable
 2. Poll end date is after now             ErrPollClosed
 3. Voter status is active                 ErrAccountNotActive
 4. Voter meets the poll's minimum age     ErrAgeRestricted
 5. Candidate belongs to the poll          ErrCandidateNotInPoll
 6. Voter has no ballot in the poll        ErrAlreadyVoted
 7. Insert the ballot                      ErrAlreadyVoted / ErrPersistence

Steps 1-4 are CheckEligibility, a pure function of (poll, voter, now).
Nothing is written until step 7, which is a single INSERT.

# Concurrency

Step 6 is a fast path only. Two requests from the same voter can both
pass it; the ballot table's UNIQUE (poll_id, user_id) constraint then
lets one insert through and the other is reported as ErrAlreadyVoted, the
same error as the pre-check. The service holds no locks and no state
between requests.

A poll deactivated between step 1 and step 7 does not block the insert.
Whatever the database holds at commit time is the outcome.

# Tallies

	rows, err := svc.Tally(ctx, viewer, pollID)

Only admins and the poll's creator may view counts (ErrForbidden
otherwise; ErrPollNotFound for an unknown poll). Every candidate is
listed, including those with zero ballots, sorted by count descending
with ties in candidate creation order.

# Errors

Every error returned is one of the package sentinels (possibly wrapped).
HTTPStatus, Code and Retryable map them for the HTTP layer:

	PollUnavailable, PollClosed, CandidateNotInPoll, AlreadyVoted  400
	AccountNotActive, AgeRestricted, Forbidden                     403
	PollNotFound                                                   404
	Persistence                                                    500 (retryable)
*/
package voting

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
	"github.com/google/uuid"
)

func newUUID() string {
	return uuid.NewString()
}

// CastVote admits one ballot from voter for candidateID in pollID.
//
// All checks complete before the single write: eligibility, candidate
// membership, then the (poll, user) pre-check. Two concurrent calls for
// the same pair can both pass the pre-check; the store's unique
// constraint lets exactly one insert through and the other gets
// ErrAlreadyVoted.
func (s *Service) CastVote(ctx context.Context, voter models.User, pollID, candidateID string) (models.Ballot, error) {
	now := s.now()

	poll, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, db.ErrNotFound) {
		return models.Ballot{}, ErrPollUnavailable
	}
	if err != nil {
		return models.Ballot{}, s.persistence("load poll", err, "poll_id", pollID)
	}

	if err := CheckEligibility(poll, voter, now); err != nil {
		return models.Ballot{}, err
	}

	if err := s.checkMembership(ctx, pollID, candidateID); err != nil {
		return models.Ballot{}, err
	}

	if err := s.checkNotVoted(ctx, pollID, voter.ID); err != nil {
		return models.Ballot{}, err
	}

	return s.record(ctx, models.Ballot{
		ID:          s.newID(),
		PollID:      pollID,
		CandidateID: candidateID,
		UserID:      voter.ID,
		CastAt:      now,
	})
}

// checkMembership rejects candidates that are unknown or belong to
// another poll. Candidate IDs are global, so the poll must be compared.
func (s *Service) checkMembership(ctx context.Context, pollID, candidateID string) error {
	c, err := s.store.GetCandidate(ctx, candidateID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrCandidateNotInPoll
	}
	if err != nil {
		return s.persistence("load candidate", err, "candidate_id", candidateID)
	}
	if c.PollID != pollID {
		return ErrCandidateNotInPoll
	}
	return nil
}

// checkNotVoted is the fast path for repeat voters.
func (s *Service) checkNotVoted(ctx context.Context, pollID, userID string) error {
	voted, err := s.store.HasBallot(ctx, pollID, userID)
	if err != nil {
		return s.persistence("check existing ballot", err, "poll_id", pollID)
	}
	if voted {
		return ErrAlreadyVoted
	}
	return nil
}

// record writes b. A unique violation means a concurrent request won
// the race.
func (s *Service) record(ctx context.Context, b models.Ballot) (models.Ballot, error) {
	err := s.store.InsertBallot(ctx, b)
	switch {
	case err == nil:
		s.logger.Info("ballot recorded", "poll_id", b.PollID, "ballot_id", b.ID)
		return b, nil
	case errors.Is(err, db.ErrDuplicate):
		s.logger.Info("duplicate ballot rejected by constraint", "poll_id", b.PollID)
		return models.Ballot{}, ErrAlreadyVoted
	case errors.Is(err, db.ErrForeignKey):
		// Candidate deleted or poll mismatch after the membership check.
		return models.Ballot{}, ErrCandidateNotInPoll
	default:
		return models.Ballot{}, s.persistence("insert ballot", err, "poll_id", b.PollID)
	}
}

func (s *Service) persistence(op string, err error, attrs ...any) error {
	s.logger.Error("failed to "+op, append([]any{"error", err}, attrs...)...)
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

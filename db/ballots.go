// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/danielhkuo/civic-vote/models"
)

// HasBallot reports whether userID already cast a ballot in pollID.
func (s *Store) HasBallot(ctx context.Context, pollID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ballot
			WHERE poll_id = $1 AND user_id = $2
		)
	`, pollID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ballot: %w", err)
	}
	return exists, nil
}

// InsertBallot writes b in a single statement. The UNIQUE (poll_id,
// user_id) constraint makes a second ballot for the same pair fail with
// ErrDuplicate; a candidate outside the poll fails with ErrForeignKey.
func (s *Store) InsertBallot(ctx context.Context, b models.Ballot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ballot (id, poll_id, candidate_id, user_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, b.ID, b.PollID, b.CandidateID, b.UserID, utc(b.CastAt))
	if err != nil {
		return fmt.Errorf("insert ballot: %w", translate(err))
	}
	return nil
}

// CountBallots returns the number of ballots cast in a poll.
func (s *Store) CountBallots(ctx context.Context, pollID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot WHERE poll_id = $1`, pollID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ballots: %w", err)
	}
	return n, nil
}

// ListUserVotes returns the polls userID voted in, most recent first.
func (s *Store) ListUserVotes(ctx context.Context, userID string) ([]models.MyVote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT poll_id, cast_at FROM ballot
		WHERE user_id = $1
		ORDER BY cast_at DESC, poll_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user votes: %w", err)
	}
	defer rows.Close()

	votes := []models.MyVote{}
	for rows.Next() {
		var v models.MyVote
		if err := rows.Scan(&v.PollID, &v.CastAt); err != nil {
			return nil, fmt.Errorf("scan user vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user votes: %w", err)
	}
	return votes, nil
}

// TallyPoll counts ballots per candidate of a poll. Every candidate of
// the poll is returned, including those with no ballots, in insertion
// order; ranking by count is left to the caller.
func (s *Store) TallyPoll(ctx context.Context, pollID string) ([]models.TallyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.seq, COUNT(b.id)
		FROM candidate c
		LEFT JOIN ballot b ON b.candidate_id = c.id AND b.poll_id = c.poll_id
		WHERE c.poll_id = $1
		GROUP BY c.id, c.name, c.seq
		ORDER BY c.seq
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query tally: %w", err)
	}
	defer rows.Close()

	tally := []models.TallyRow{}
	for rows.Next() {
		var r models.TallyRow
		if err := rows.Scan(&r.CandidateID, &r.CandidateName, &r.Position, &r.Count); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		tally = append(tally, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}
	return tally, nil
}

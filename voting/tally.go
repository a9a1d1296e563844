// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"sort"

	"github.com/danielhkuo/civic-vote/db"
	"github.com/danielhkuo/civic-vote/models"
)

// Tally returns every candidate of pollID with its ballot count, highest
// first. Equal counts keep candidate insertion order.
func (s *Service) Tally(ctx context.Context, viewer models.User, pollID string) ([]models.TallyRow, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, s.persistence("load poll", err, "poll_id", pollID)
	}

	if !CanViewTally(poll, viewer) {
		return nil, ErrForbidden
	}

	rows, err := s.store.TallyPoll(ctx, pollID)
	if err != nil {
		return nil, s.persistence("tally poll", err, "poll_id", pollID)
	}

	RankTally(rows)
	return rows, nil
}

// RankTally sorts rows by count descending, then by candidate position.
func RankTally(rows []models.TallyRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Position < rows[j].Position
	})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/civic-vote/models"
)

// CheckEligibility decides whether voter may vote in poll at now.
// Checks run in a fixed order and the first failure wins:
// poll active, poll still open, account active, minimum age.
//
// A voter with no recorded age fails any poll that sets a minimum age.
func CheckEligibility(poll models.Poll, voter models.User, now time.Time) error {
	if !poll.IsActive {
		return ErrPollUnavailable
	}
	if !poll.EndDate.After(now) {
		return ErrPollClosed
	}
	if voter.Status != models.StatusActive {
		return ErrAccountNotActive
	}
	if poll.MinAge != nil {
		if voter.Age == nil || *voter.Age < *poll.MinAge {
			return ErrAgeRestricted
		}
	}
	return nil
}

// CanViewTally reports whether viewer may see a poll's counts: admins
// and the poll's creator only.
func CanViewTally(poll models.Poll, viewer models.User) bool {
	return viewer.Role == models.RoleAdmin || viewer.ID == poll.CreatedBy
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"net/http"
)

// Rejections of a vote or tally request. Each maps to one HTTP status
// and one machine-readable code.
var (
	ErrPollUnavailable    = errors.New("poll is not available for voting")
	ErrPollClosed         = errors.New("poll has closed")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrAgeRestricted      = errors.New("voter does not meet the poll's minimum age")
	ErrCandidateNotInPoll = errors.New("candidate does not belong to this poll")
	ErrAlreadyVoted       = errors.New("already voted in this poll")
	ErrPollNotFound       = errors.New("poll not found")
	ErrForbidden          = errors.New("not allowed to view results of this poll")
	ErrPersistence        = errors.New("storage failure")
)

type kind struct {
	err    error
	status int
	code   string
}

var kinds = []kind{
	{ErrPollUnavailable, http.StatusBadRequest, "poll_unavailable"},
	{ErrPollClosed, http.StatusBadRequest, "poll_closed"},
	{ErrAccountNotActive, http.StatusForbidden, "account_not_active"},
	{ErrAgeRestricted, http.StatusForbidden, "age_restricted"},
	{ErrCandidateNotInPoll, http.StatusBadRequest, "candidate_not_in_poll"},
	{ErrAlreadyVoted, http.StatusBadRequest, "already_voted"},
	{ErrPollNotFound, http.StatusNotFound, "poll_not_found"},
	{ErrForbidden, http.StatusForbidden, "forbidden"},
	{ErrPersistence, http.StatusInternalServerError, "persistence_failure"},
}

func lookup(err error) (kind, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k, true
		}
	}
	return kind{}, false
}

// HTTPStatus returns the status for err, or 500 if err is not one of
// this package's errors.
func HTTPStatus(err error) int {
	if k, ok := lookup(err); ok {
		return k.status
	}
	return http.StatusInternalServerError
}

// Code returns the machine-readable code for err, or "internal".
func Code(err error) string {
	if k, ok := lookup(err); ok {
		return k.code
	}
	return "internal"
}

// Retryable reports whether the client may retry. Only storage failures
// are transient; the server itself never retries a ballot insert.
func Retryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsDomainError reports whether err is one of this package's errors.
func IsDomainError(err error) bool {
	_, ok := lookup(err)
	return ok
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/civic-vote/models"
)

// Store is the persistence the service needs. *db.Store satisfies it.
//
// GetPoll and GetCandidate return an error wrapping db.ErrNotFound for a
// missing row. InsertBallot must be a single atomic write and must fail
// with db.ErrDuplicate when (poll, user) already has a ballot.
type Store interface {
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	HasBallot(ctx context.Context, pollID, userID string) (bool, error)
	InsertBallot(ctx context.Context, b models.Ballot) error
	TallyPoll(ctx context.Context, pollID string) ([]models.TallyRow, error)
}

// Service admits ballots and computes tallies. It holds no per-request
// state; concurrent calls are serialized only by the store.
type Service struct {
	store  Store
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the ballot ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService returns a Service backed by store. Ballot IDs default to
// random UUIDs.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		newID:  newUUID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

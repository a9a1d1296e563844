// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/civic-vote/models"
)

// maxSeqAttempts bounds retries when two candidates race for the same
// position in a poll.
const maxSeqAttempts = 5

const candidateColumns = `id, poll_id, seq, name, party, photo_url, age, description, created_at`

func scanCandidate(row scanner) (models.Candidate, error) {
	var c models.Candidate
	var photoURL, description sql.NullString
	var age sql.NullInt64
	err := row.Scan(
		&c.ID, &c.PollID, &c.Position, &c.Name, &c.Party,
		&photoURL, &age, &description, &c.CreatedAt,
	)
	if err != nil {
		return models.Candidate{}, err
	}
	c.PhotoURL = stringPtr(photoURL)
	c.Age = intPtr(age)
	c.Description = stringPtr(description)
	return c, nil
}

// CreateCandidate inserts a candidate at the next position of its poll.
// Positions are unique per poll; a concurrent insert that takes the same
// position makes this one retry with the following position.
func (s *Store) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.CreatedAt = utc(c.CreatedAt)

	for attempt := 0; attempt < maxSeqAttempts; attempt++ {
		var next int
		err := s.db.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(seq), 0) + 1 FROM candidate WHERE poll_id = $1
		`, c.PollID).Scan(&next)
		if err != nil {
			return fmt.Errorf("next candidate position: %w", err)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO candidate (id, poll_id, seq, name, party, photo_url, age, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, c.ID, c.PollID, next, c.Name, c.Party,
			nullString(c.PhotoURL), nullInt(c.Age), nullString(c.Description), c.CreatedAt)
		if err == nil {
			c.Position = next
			return nil
		}
		if !IsUniqueViolation(err) {
			return fmt.Errorf("insert candidate: %w", translate(err))
		}
	}

	return fmt.Errorf("insert candidate: %w: position contention on poll %s", ErrDuplicate, c.PollID)
}

// GetCandidate returns the candidate with the given ID or ErrNotFound.
func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		return models.Candidate{}, translate(err)
	}
	return c, nil
}

// ListCandidates returns the candidates of a poll in insertion order.
func (s *Store) ListCandidates(ctx context.Context, pollID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate
		WHERE poll_id = $1
		ORDER BY seq
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// DeleteCandidate removes a candidate that no ballot references. A
// referenced candidate returns ErrForeignKey.
func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

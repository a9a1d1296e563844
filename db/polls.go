// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/civic-vote/models"
)

const pollColumns = `p.id, p.title, p.description, p.created_by, u.full_name, p.end_date, p.min_age, p.is_active, p.created_at, p.updated_at`

const pollFrom = ` FROM poll p LEFT JOIN app_user u ON u.id = p.created_by`

func scanPoll(row scanner) (models.Poll, error) {
	var p models.Poll
	var creatorName sql.NullString
	var minAge sql.NullInt64
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.CreatedBy, &creatorName,
		&p.EndDate, &minAge, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Poll{}, err
	}
	p.CreatorName = creatorName.String
	p.MinAge = intPtr(minAge)
	return p, nil
}

// PollFilter narrows ListPolls. The zero value lists every poll.
type PollFilter struct {
	CreatedBy  string
	ActiveOnly bool
}

// CreatePoll inserts a poll. ID and timestamps are filled in when empty.
func (s *Store) CreatePoll(ctx context.Context, p *models.Poll) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = utc(p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	p.EndDate = utc(p.EndDate)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll (id, title, description, created_by, end_date, min_age, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Description, p.CreatedBy, p.EndDate, nullInt(p.MinAge), p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert poll: %w", translate(err))
	}
	return nil
}

// GetPoll returns the poll with the given ID or ErrNotFound.
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pollColumns+pollFrom+` WHERE p.id = $1`, id)
	p, err := scanPoll(row)
	if err != nil {
		return models.Poll{}, translate(err)
	}
	return p, nil
}

// ListPolls returns polls matching f, newest first.
func (s *Store) ListPolls(ctx context.Context, f PollFilter) ([]models.Poll, error) {
	var where []string
	var args []any
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		where = append(where, fmt.Sprintf("p.created_by = $%d", len(args)))
	}
	if f.ActiveOnly {
		args = append(args, true)
		where = append(where, fmt.Sprintf("p.is_active = $%d", len(args)))
	}

	query := `SELECT ` + pollColumns + pollFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	return polls, nil
}

// UpdatePoll writes the mutable fields of p (title, description,
// end_date, min_age, is_active) and bumps updated_at.
func (s *Store) UpdatePoll(ctx context.Context, p *models.Poll, now time.Time) error {
	p.UpdatedAt = utc(now)
	p.EndDate = utc(p.EndDate)

	res, err := s.db.ExecContext(ctx, `
		UPDATE poll
		SET title = $1, description = $2, end_date = $3, min_age = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`, p.Title, p.Description, p.EndDate, nullInt(p.MinAge), p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update poll: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePoll removes a poll and its candidates. Polls with ballots are
// never deleted: the ballot foreign key refuses and ErrForeignKey is
// returned.
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poll: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

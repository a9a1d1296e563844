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

const userColumns = `id, national_id, email, password_hash, full_name, phone, age, role, status, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var email, phone sql.NullString
	var age sql.NullInt64
	err := row.Scan(
		&u.ID, &u.NationalID, &email, &u.PasswordHash, &u.FullName,
		&phone, &age, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	u.Email = stringPtr(email)
	u.Phone = stringPtr(phone)
	u.Age = intPtr(age)
	return u, nil
}

// CreateUser inserts a user. ID, CreatedAt and UpdatedAt are filled in
// when empty. A taken national ID or email returns ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.CreatedAt = utc(u.CreatedAt)
	u.UpdatedAt = u.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, national_id, email, password_hash, full_name, phone, age, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.NationalID, nullString(u.Email), u.PasswordHash, u.FullName,
		nullString(u.Phone), nullInt(u.Age), u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

// GetUser returns the user with the given ID or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

// GetUserByNationalID returns the user registered under nationalID or
// ErrNotFound.
func (s *Store) GetUserByNationalID(ctx context.Context, nationalID string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE national_id = $1`, nationalID)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

// ListUsers returns every user except excludeID, newest first.
func (s *Store) ListUsers(ctx context.Context, excludeID string) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT `+userColumns+` FROM app_user
		WHERE id <> $1
		ORDER BY created_at DESC, id
	`, excludeID)
}

// ListPendingSupervisors returns supervisor accounts awaiting approval.
func (s *Store) ListPendingSupervisors(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT `+userColumns+` FROM app_user
		WHERE status = $1 AND role = $2
		ORDER BY created_at DESC, id
	`, models.StatusPending, models.RoleSupervisor)
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateUserStatus sets the account status and returns the updated user.
func (s *Store) UpdateUserStatus(ctx context.Context, id, status string, now time.Time) (models.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE app_user SET status = $1, updated_at = $2 WHERE id = $3
	`, status, utc(now), id)
	if err != nil {
		return models.User{}, fmt.Errorf("update user status: %w", translate(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

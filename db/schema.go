// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The same DDL is valid for PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes every table created by CreateSchema.
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS ballot;
		DROP TABLE IF EXISTS candidate;
		DROP TABLE IF EXISTS poll;
		DROP TABLE IF EXISTS app_user;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    national_id TEXT NOT NULL UNIQUE,
    email TEXT UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    phone TEXT,
    age INTEGER CHECK (age IS NULL OR age >= 0),
    role TEXT NOT NULL CHECK (role IN ('admin', 'supervisor', 'voter')),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'suspended')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_app_user_status_role ON app_user(status, role);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL REFERENCES app_user(id),
    end_date TIMESTAMP NOT NULL,
    min_age INTEGER CHECK (min_age IS NULL OR min_age > 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_created_by ON poll(created_by);
CREATE INDEX IF NOT EXISTS idx_poll_is_active ON poll(is_active);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    photo_url TEXT,
    age INTEGER,
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, seq),
    UNIQUE (id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_candidate_poll_id ON candidate(poll_id);

-- Ballots (immutable; one per user per poll)
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    candidate_id TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, user_id),
    FOREIGN KEY (candidate_id, poll_id) REFERENCES candidate(id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_candidate ON ballot(poll_id, candidate_id);
CREATE INDEX IF NOT EXISTS idx_ballot_user_id ON ballot(user_id);
`

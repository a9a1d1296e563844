// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the connection, the schema, and every SQL query.

# Connecting

Open returns a verified *sql.DB for either supported database:

	conn, err := db.Open(db.DialectPostgres, "postgres://...")
	conn, err := db.Open(db.DialectSQLite, "/var/lib/civic-vote/vote.db")

PostgreSQL goes through github.com/lib/pq, SQLite through
modernc.org/sqlite (WAL, foreign keys on, 5s busy timeout, one
connection). The handle is created once in main and passed down; there is
no package-level connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL is shared by both databases.

# Tables

	app_user 1──* poll        (created_by)
	poll     1──* candidate   (ON DELETE CASCADE)
	poll     1──* ballot
	app_user 1──* ballot
	candidate 1──* ballot     (candidate_id, poll_id)

ballot has UNIQUE (poll_id, user_id): one ballot per user per poll,
regardless of how many requests race. Its composite foreign key to
candidate(id, poll_id) means a ballot can only name a candidate of its
own poll. Ballots are never updated or deleted, so neither a poll nor a
candidate with ballots can be deleted.

# Errors

Store methods return ErrNotFound, ErrDuplicate or ErrForeignKey (wrapped)
in place of driver errors, so callers never inspect *pq.Error or
*sqlite.Error themselves:

	if errors.Is(err, db.ErrDuplicate) {
		// unique constraint fired
	}
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the civic-vote API server.

civic-vote is the backend of a municipal online-voting service: citizens
register, supervisors create polls and candidates, voters cast one ballot
per poll, and administrators approve supervisor accounts and moderate
polls.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=vote.db JWT_SECRET=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret change-me

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL URL
  - JWT_SECRET (--jwt-secret): session token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL (--token-ttl): session lifetime (default: 24h)
  - FRONTEND_URL (--frontend-url): allowed CORS origin
  - ADMIN_NATIONAL_ID, ADMIN_PASSWORD, ADMIN_NAME: bootstrap admin

# Architecture

The server uses a handler-based architecture with dependency injection:

  - voting: ballot admission and tallies
  - handlers: HTTP request handlers (auth, polls, candidates, votes, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: authentication, CORS, logging, JSON helpers
  - db: connection, schema and queries (PostgreSQL or SQLite)
  - models: Request/response and domain types
  - auth: password hashing and session tokens
  - cliparse: Configuration parsing

The database handle is opened once in main and passed down. SIGINT or
SIGTERM stops accepting connections and waits up to 10 seconds for
in-flight requests.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL URL or SQLite file path (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: Session token signing secret (required)
  - TokenTTL: Session token lifetime (default: 24h)
  - FrontendURL: Allowed CORS origin (default: none, CORS off)
  - AdminNationalID, AdminPassword, AdminName: bootstrap admin account

# CLI Flags

Flags are parsed with github.com/spf13/pflag:

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  sqlite or postgres
	    --jwt-secret     Token signing secret
	    --token-ttl      Token lifetime (e.g. 12h)
	    --frontend-url   Allowed CORS origin
	    --env-file       Env file (default .env)

# Environment Variables

Before falling back to the environment, the env file is loaded with
github.com/joho/godotenv. A missing file is not an error, and values
already in the process environment are never overwritten.

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	JWT_SECRET    → --jwt-secret
	TOKEN_TTL     → --token-ttl
	FRONTEND_URL  → --frontend-url

The admin bootstrap reads ADMIN_NATIONAL_ID, ADMIN_PASSWORD and
ADMIN_NAME from the environment only.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - JWT_SECRET is missing
  - the database type is not sqlite or postgres
  - only one of ADMIN_NATIONAL_ID and ADMIN_PASSWORD is set
*/
package cliparse

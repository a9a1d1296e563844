// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// sqlitePragmas are applied to every SQLite connection.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open connects to the database and verifies the connection.
func Open(dialect, url string) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch dialect {
	case DialectPostgres:
		conn, err = sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	case DialectSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite has a single writer; one connection avoids SQLITE_BUSY
		// between our own goroutines.
		conn.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported database type %q (want %s or %s)", dialect, DialectPostgres, DialectSQLite)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	params := make([]string, 0, len(sqlitePragmas))
	for _, p := range sqlitePragmas {
		params = append(params, "_pragma="+p)
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

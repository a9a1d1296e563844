// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session tokens.

# Passwords

Passwords are hashed with bcrypt (golang.org/x/crypto/bcrypt):

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrInvalidPassword on mismatch

Plaintext passwords are never stored.

# Session Tokens

Sign-in issues an HS256 JWT (github.com/golang-jwt/jwt/v4):

	token, err := auth.IssueToken(userID, secret, 24*time.Hour, time.Now())
	userID, err := auth.ParseToken(token, secret)

The token carries only the user ID and expiry. Role, status and age are
re-read from the database by middleware.Authenticate on every request, so
a suspension or role change takes effect immediately.
*/
package auth

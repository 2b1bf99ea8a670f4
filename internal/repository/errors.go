// Package repository defines error types that are reused across
// repositories. These sentinel values let handlers distinguish failure
// scenarios: ErrUsernameExists maps to HTTP 409, ErrNotFound to 404,
// anything else to 500.
package repository

import "errors"

// ErrUsernameExists is returned when registration hits the unique
// constraint on users.username.
var ErrUsernameExists = errors.New("username already exists")

// ErrNotFound is returned when a lookup, delete or image update matches
// zero rows.
var ErrNotFound = errors.New("not found")

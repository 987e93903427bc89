package domain

import "errors"

// Session and authorization errors. Handlers collapse the session errors into a
// single "unauthenticated" response.
var (
	ErrInvalidSession      = errors.New("invalid session")
	ErrExpiredSession      = errors.New("session expired")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// Data access errors.
var (
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrIndexConflict         = errors.New("index conflict: retry budget exhausted")
	ErrNotFound              = errors.New("not found")
	ErrUnsupportedLanguage   = errors.New("unsupported language")
	ErrInvalidItem           = errors.New("invalid gallery item")
	ErrTierMiss              = errors.New("tier miss")
)

// Key-value store errors.
var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrVersionMismatch = errors.New("version mismatch")
)

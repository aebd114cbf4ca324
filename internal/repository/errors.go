package repository

import "errors"

var (
	// ErrSessionNotFound indicates the session does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID indicates a malformed session identifier
	ErrInvalidSessionID = errors.New("invalid session ID")
)

package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateName  = errors.New("player name already exists")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

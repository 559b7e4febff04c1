package model

import "time"

// Session binds an opaque client-held token to a player until it expires
type Session struct {
	Token     string
	PlayerID  PlayerID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at the given time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

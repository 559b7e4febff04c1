// Package session maps opaque client-held tokens to players.
//
// Tokens are random and stored server-side with an expiry, so logging out
// revokes them and a guessed player ID grants nothing.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/dependencies/random"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// CookieName is the cookie carrying the session token
const CookieName = "session"

// Service issues, resolves and revokes sessions
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
}

// Config holds configuration for the session service
type Config struct {
	TTL          time.Duration
	CookieSecure bool
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TTL: 7 * 24 * time.Hour,
	}
}

// New creates a new session service
func New(storage storage.Storage, clock clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  rnd,
		logger:  logger,
		cfg:     cfg,
	}
}

// TTL returns how long an issued session stays valid
func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

// Issue creates a new session for the player
func (s *Service) Issue(ctx context.Context, player *model.Player) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     s.random.Token(),
		PlayerID:  player.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve returns the player a token belongs to, or nil when the token is
// empty, malformed, unknown, expired or points at a missing player.
// Store failures are logged and treated as unauthenticated.
func (s *Service) Resolve(ctx context.Context, token string) *model.Player {
	if !random.IsToken(token) {
		return nil
	}

	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if !errors.Is(err, model.ErrSessionNotFound) {
			s.logger.Warn("session lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}

	if session.Expired(s.clock.Now()) {
		s.Revoke(ctx, token)
		return nil
	}

	player, err := s.storage.GetPlayer(ctx, session.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			s.Revoke(ctx, token)
		} else {
			s.logger.Warn("session player lookup failed",
				slog.Int64("player_id", int64(session.PlayerID)),
				slog.String("error", err.Error()))
		}
		return nil
	}
	return player
}

// Revoke deletes the session. Unknown tokens are ignored.
func (s *Service) Revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.storage.DeleteSession(ctx, token); err != nil {
		s.logger.Warn("session revoke failed", slog.String("error", err.Error()))
	}
}

// CleanExpired removes sessions past their expiry and returns how many went
func (s *Service) CleanExpired(ctx context.Context) (int64, error) {
	return s.storage.DeleteExpiredSessions(ctx, s.clock.Now())
}

// SetCookie writes the session cookie
func (s *Service) SetCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(s.cfg.TTL / time.Second),
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromCookie returns the session cookie value, or "" if absent
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

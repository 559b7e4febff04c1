package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/services/session"
)

type contextKey string

const (
	playerContextKey contextKey = "player"
)

// LoginPath is where unauthenticated page requests are sent
const LoginPath = "/profile"

// GetPlayer retrieves the authenticated player from the request context
// Returns nil if no player is authenticated
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// Auth returns middleware that requires authentication
// Redirects to the login page if not authenticated
func Auth(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromCookie(r)
			if token == "" {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			player := sessions.Resolve(r.Context(), token)
			if player == nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

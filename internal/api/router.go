package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicchallenge/internal/api/handler"
	"github.com/mcoot/musicchallenge/internal/api/middleware"
	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/services/auth"
	"github.com/mcoot/musicchallenge/internal/services/leaderboard"
	"github.com/mcoot/musicchallenge/internal/services/scores"
	"github.com/mcoot/musicchallenge/internal/services/session"
	"github.com/mcoot/musicchallenge/internal/services/tracks"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Clock              clock.Clock
	AuthService        *auth.Service
	SessionService     *session.Service
	ScoreService       *scores.Service
	LeaderboardService *leaderboard.Service
	Tracks             *tracks.Catalog
}

// RegisterRoutes mounts the API under /api on r
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.SessionService, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.ScoreService, cfg.Logger)
	trackHandler := handler.NewTrackHandler(cfg.Tracks)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))

	// Public routes
	api.HandleFunc("/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/ping", handler.Ping(cfg.Clock)).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", playerHandler.OAuthLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/callback", playerHandler.OAuthCallback).Methods(http.MethodGet)

	// Session-gated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(cfg.SessionService))
	protected.HandleFunc("/profile", playerHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/score", scoreHandler.Record).Methods(http.MethodPost)
	protected.HandleFunc("/scores", scoreHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/next-track", trackHandler.Next).Methods(http.MethodGet)
}

// NewRouter creates a router serving only the API
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

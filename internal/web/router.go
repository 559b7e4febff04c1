package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/musicchallenge/internal/services/leaderboard"
	"github.com/mcoot/musicchallenge/internal/services/session"
	"github.com/mcoot/musicchallenge/internal/web/handler"
	"github.com/mcoot/musicchallenge/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	SessionService     *session.Service
	LeaderboardService *leaderboard.Service
}

// NewRouter creates the router for the /app page-data routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))

	pageHandler := handler.NewPageHandler(cfg.LeaderboardService, cfg.Logger)

	app := r.PathPrefix("/app").Subrouter()

	// Public
	app.HandleFunc("/leaderboard", pageHandler.Leaderboard).Methods(http.MethodGet)

	// Protected routes (require auth)
	protected := app.NewRoute().Subrouter()
	protected.Use(middleware.Auth(cfg.SessionService))
	protected.HandleFunc("/home", pageHandler.Home).Methods(http.MethodGet)
	protected.HandleFunc("/profile", pageHandler.Profile).Methods(http.MethodGet)

	return r
}

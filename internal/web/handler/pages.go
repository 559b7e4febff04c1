package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/services/leaderboard"
	"github.com/mcoot/musicchallenge/internal/web/middleware"
)

// PageData is the data a page under /app is rendered from
type PageData struct {
	Player *response.Player `json:"player"`
}

// PageHandler serves the data behind the /app pages
type PageHandler struct {
	leaderboard *leaderboard.Service
	logger      *slog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(lb *leaderboard.Service, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		leaderboard: lb,
		logger:      logger,
	}
}

// Home serves GET /app/home
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.writePlayer(w, r)
}

// Profile serves GET /app/profile
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.writePlayer(w, r)
}

// Leaderboard serves GET /app/leaderboard. It is public.
func (h *PageHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := apierr.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		h.logger.Error("leaderboard page failed", slog.String("error", err.Error()))
		http.Error(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

func (h *PageHandler) writePlayer(w http.ResponseWriter, r *http.Request) {
	p := response.PlayerFromModel(middleware.GetPlayer(r.Context()))
	response.JSON(w, http.StatusOK, PageData{Player: &p})
}

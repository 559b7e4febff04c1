package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/services/leaderboard"
)

// LeaderboardHandler serves the public leaderboard
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
	logger      *slog.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(lb *leaderboard.Service, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: lb,
		logger:      logger,
	}
}

// Get handles GET /api/leaderboard and GET /app/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

package handler

import (
	"bytes"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	"github.com/mcoot/musicchallenge/internal/api/middleware"
	"github.com/mcoot/musicchallenge/internal/api/request"
	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/services/scores"
)

// ScoreHandler handles score submission and history
type ScoreHandler struct {
	scores *scores.Service
	logger *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scoreService *scores.Service, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		scores: scoreService,
		logger: logger,
	}
}

// Record handles POST /api/score
func (h *ScoreHandler) Record(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	value, err := parseScore(req.Score)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if _, err := h.scores.Record(r.Context(), player.ID, value); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	best, err := h.scores.BestScore(r.Context(), player.ID)
	if err != nil {
		// The score is stored; only the echo of the new best is missing
		h.logger.Warn("best score lookup failed", slog.String("error", err.Error()))
	}
	response.JSON(w, http.StatusOK, response.RecordScoreResponse{Success: true, BestScore: best})
}

// History handles GET /api/scores
func (h *ScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	limit, err := queryLimit(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	events, err := h.scores.History(r.Context(), player.ID, limit)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ScoreHistoryFromModel(events))
}

// parseScore accepts a JSON number with no fractional part.
// Strings, booleans, null and fractions are all invalid scores.
func parseScore(raw []byte) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, apierr.NewInvalidScoreError()
	}

	if v, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return v, nil
	}

	// Integral values written with an exponent or a trailing .0
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, apierr.NewInvalidScoreError()
	}
	return int64(f), nil
}

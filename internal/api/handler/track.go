package handler

import (
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/services/tracks"
)

// TrackHandler serves songs for the challenge
type TrackHandler struct {
	catalog *tracks.Catalog
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(catalog *tracks.Catalog) *TrackHandler {
	return &TrackHandler{catalog: catalog}
}

// Next handles GET /api/next-track
func (h *TrackHandler) Next(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.NextTrackFromModel(h.catalog.Next()))
}

package handler

import (
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
)

// Ping returns a handler for GET /api/ping
func Ping(clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.PingResponse{Status: "ok", Timestamp: clk.Now()})
	}
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	"github.com/mcoot/musicchallenge/internal/middleware"
)

// Recovery turns a panic in an /api handler into the usual INTERNAL_ERROR body.
// The panic value and stack only go to the log.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writeInternalError)
}

// writeInternalError answers a recovered request. The connection is closed
// afterwards and the request ID is repeated so a client can quote it.
func writeInternalError(w http.ResponseWriter, r *http.Request, _ any) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Connection", "close")
	if id := middleware.GetRequestID(r.Context()); id != "" {
		h.Set(middleware.RequestIDHeader, id)
	}
	apierr.WriteError(w, apierr.NewInternalError())
}

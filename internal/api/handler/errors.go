package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	"github.com/mcoot/musicchallenge/internal/middleware"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// WriteError writes an error response. Server errors are logged with the
// underlying cause, which the client never sees.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}

// queryLimit parses the optional ?limit= parameter; absent means 0
func queryLimit(r *http.Request) (int, error) {
	return apierr.ParseLimit(r.URL.Query().Get("limit"))
}

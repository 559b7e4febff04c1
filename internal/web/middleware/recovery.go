package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/musicchallenge/internal/middleware"
)

// Recovery creates panic recovery middleware for the page-data routes
// Returns a plain-text 500 on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

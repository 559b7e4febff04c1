package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	apimiddleware "github.com/mcoot/musicchallenge/internal/api/middleware"
	"github.com/mcoot/musicchallenge/internal/middleware"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

func TestRecoveryWritesInternalError(t *testing.T) {
	logs, logger := testutil.NewLogCapture()

	h := middleware.RequestID(apimiddleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "close", rec.Header().Get("Connection"))
	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))

	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeInternalError, body.Code)
	assert.NotContains(t, rec.Body.String(), "nil map")

	entry := logs.Find("panic recovered")
	require.NotNil(t, entry)
	assert.Equal(t, "req-42", entry["request_id"])
}

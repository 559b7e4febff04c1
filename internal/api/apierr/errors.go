package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/services/auth"
	"github.com/mcoot/musicchallenge/internal/services/scores"
)

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidCountry     = "INVALID_COUNTRY"
	CodeInvalidGender      = "INVALID_GENDER"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidScore       = "INVALID_SCORE"
	CodeNameExists         = "NAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Anything unrecognized becomes a generic 500 so store details never leak.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation
	case errors.Is(err, auth.ErrInvalidName):
		return badRequest(CodeInvalidName, auth.ErrInvalidName)
	case errors.Is(err, auth.ErrInvalidCountry):
		return badRequest(CodeInvalidCountry, auth.ErrInvalidCountry)
	case errors.Is(err, auth.ErrInvalidGender):
		return badRequest(CodeInvalidGender, auth.ErrInvalidGender)
	case errors.Is(err, auth.ErrInvalidPassword):
		return badRequest(CodeInvalidPassword, auth.ErrInvalidPassword)
	case errors.Is(err, auth.ErrWeakPassword):
		return badRequest(CodeWeakPassword, auth.ErrWeakPassword)
	case errors.Is(err, scores.ErrInvalidScore):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Invalid score value", CodeInvalidScore}}

	// Conflicts are reported as bad requests, as clients already expect
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Player name already exists", CodeNameExists}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, ErrorResponse{"Invalid name or password", CodeInvalidCredentials}}

	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"Player not found", CodePlayerNotFound}}

	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
	}
}

func badRequest(code string, err error) *httpError {
	return &httpError{http.StatusBadRequest, ErrorResponse{err.Error(), code}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{message, CodeInvalidRequest}}
}

// NewInvalidScoreError creates the error for a score that is not a non-negative integer
func NewInvalidScoreError() error {
	return &httpError{http.StatusBadRequest, ErrorResponse{"Invalid score value", CodeInvalidScore}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, ErrorResponse{"Unauthorized", CodeUnauthorized}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
}

// ParseLimit parses an optional ?limit= value. Empty means 0, which callers
// treat as their default size.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewInvalidRequestError("limit must be an integer")
	}
	if limit < 0 {
		return 0, NewInvalidRequestError("limit must not be negative")
	}
	return limit, nil
}

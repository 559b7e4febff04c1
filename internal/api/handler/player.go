package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/musicchallenge/internal/api/apierr"
	"github.com/mcoot/musicchallenge/internal/api/middleware"
	"github.com/mcoot/musicchallenge/internal/api/request"
	"github.com/mcoot/musicchallenge/internal/api/response"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/services/auth"
	"github.com/mcoot/musicchallenge/internal/services/session"
)

const (
	oauthRedirectCookie = "oauth_redirect"
	oauthRedirectMaxAge = 10 * 60
	defaultAppPath      = "/app/home"
	authFailedPath      = "/profile?error=auth_failed"
)

// PlayerHandler handles registration, login and the profile endpoint
type PlayerHandler struct {
	authService *auth.Service
	sessions    *session.Service
	logger      *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, sessions *session.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Register handles POST /api/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	player, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Country:  req.Country,
		Gender:   model.Gender(req.Gender),
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if !h.startSession(w, r, player) {
		return
	}
	response.JSON(w, http.StatusCreated, response.OK)
}

// Login handles POST /api/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if req.Name == "" || req.Password == "" {
		WriteError(w, r, h.logger, apierr.NewInvalidRequestError("Name and password are required"))
		return
	}

	player, err := h.authService.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if !h.startSession(w, r, player) {
		return
	}
	response.JSON(w, http.StatusOK, response.OK)
}

// Logout handles POST /api/logout. It succeeds whether or not a session exists.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Revoke(r.Context(), middleware.ExtractToken(r))
	h.sessions.ClearCookie(w)
	response.JSON(w, http.StatusOK, response.OK)
}

// Profile handles GET /api/profile
func (h *PlayerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.ProfileResponse{User: response.PlayerFromModel(player)})
}

// OAuthLogin handles GET /api/auth/login. There is no real provider: the
// requested destination is remembered and the client goes straight to the callback.
func (h *PlayerHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect_uri")
	if !isLocalPath(redirect) {
		redirect = defaultAppPath
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthRedirectCookie,
		Value:    url.QueryEscape(redirect),
		Path:     "/",
		MaxAge:   oauthRedirectMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/api/auth/callback", http.StatusFound)
}

// OAuthCallback handles GET /api/auth/callback, signing in the demo account
func (h *PlayerHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	redirect := defaultAppPath
	if c, err := r.Cookie(oauthRedirectCookie); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil && isLocalPath(v) {
			redirect = v
		}
	}
	http.SetCookie(w, &http.Cookie{Name: oauthRedirectCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	player, err := h.authService.DemoPlayer(r.Context())
	if err != nil {
		h.logger.Error("oauth callback failed", slog.String("error", err.Error()))
		http.Redirect(w, r, authFailedPath, http.StatusFound)
		return
	}

	sess, err := h.sessions.Issue(r.Context(), player)
	if err != nil {
		h.logger.Error("oauth session issue failed", slog.String("error", err.Error()))
		http.Redirect(w, r, authFailedPath, http.StatusFound)
		return
	}

	h.sessions.SetCookie(w, sess)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// startSession issues a session and sets the cookie. It writes the error
// response itself and reports false on failure.
func (h *PlayerHandler) startSession(w http.ResponseWriter, r *http.Request, player *model.Player) bool {
	sess, err := h.sessions.Issue(r.Context(), player)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return false
	}
	h.sessions.SetCookie(w, sess)
	return true
}

// isLocalPath accepts only same-origin absolute paths, so the redirect
// cannot send the user to another site. Browsers drop tabs and newlines
// while parsing, so control characters are refused outright.
func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] == 0x7f {
			return false
		}
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}

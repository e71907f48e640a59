package handlers

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/Rakhulsr/go-shop/app/utils/sessions"
	"go.uber.org/zap"
)

type AuthHandler struct {
	*Base
	auth         *services.AuthService
	sessionStore sessions.SessionStore
}

func NewAuthHandler(base *Base, auth *services.AuthService, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{Base: base, auth: auth, sessionStore: sessionStore}
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login opens a cookie session for the account.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	zap.S().Infow("user logged in", "user_id", user.ID, "request_id", requestID(r))
	h.ok(w, userResponse(*user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		zap.S().Warnf("AuthHandler: failed to clear session: %v", err)
	}
	h.noContent(w, http.StatusNoContent)
}

// Token trades credentials for a bearer token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	body, err := h.decode(r, &in)
	defer body.Close()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token, expiresAt, err := h.auth.IssueToken(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

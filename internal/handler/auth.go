package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"supplyhub/internal/middleware"
	"supplyhub/internal/model"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
	"supplyhub/pkg/response"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts *service.AccountService
	sessions *service.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *service.AccountService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
	}
}

// credentials is the request body for register and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	acc, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":    model.ProfileOf(acc, false),
		"message": "registration successful",
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	acc, token, err := h.accounts.Login(r.Context(), req.Email, req.Password, ip, r.UserAgent())
	if err != nil {
		response.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, map[string]interface{}{
		"token":      token,
		"expires_in": int(h.sessions.TTL().Seconds()),
		"user":       model.ProfileOf(acc, false),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		response.Error(w, apierror.BadRequest("session token required"))
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to log out"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	response.OK(w, map[string]string{"status": "logged out"})
}

// requireSession resolves the caller's session from the request context,
// writing an Unauthorized response when absent.
func requireSession(w http.ResponseWriter, r *http.Request) (*model.SessionData, bool) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		response.Error(w, apierror.Unauthorized(""))
		return nil, false
	}
	return session, true
}

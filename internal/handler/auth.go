package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spendwise/spendwise-go/internal/middleware"
	"github.com/spendwise/spendwise-go/internal/model"
	"github.com/spendwise/spendwise-go/internal/service"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	service      *service.AuthService
	cookieSecure bool
	cookieTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler. cookieSecure should be true in
// production so the session cookie is only sent over HTTPS; cookieTTL matches
// the token lifetime.
func NewAuthHandler(svc *service.AuthService, cookieSecure bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: svc, cookieSecure: cookieSecure, cookieTTL: cookieTTL}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, internalError(err))
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Message: "user registered successfully",
		User:    user,
	})
}

// HandleLogin handles POST /api/auth/login requests. On success the token is
// both returned in the body and set as an HTTP-only, same-site-strict cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	token, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, internalError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message: "logged in successfully",
		Token:   token,
		User:    user,
	})
}

// HandleLogout handles POST /api/auth/logout requests. Only the cookie is
// cleared; a bearer token already held by a client stays valid until its
// natural expiry, since tokens are stateless and there is no revocation list.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// HandleCurrentUser handles GET /api/auth/current-user requests. The access
// gate has already resolved and attached the user.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.UserResponse{"user": user.Response()})
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spendwise/spendwise-go/internal/crypto"
	"github.com/spendwise/spendwise-go/internal/model"
	"github.com/spendwise/spendwise-go/internal/repository"
)

type contextKey string

const userKey contextKey = "user"

// SessionCookie is the name of the HTTP-only cookie carrying the session
// token. The auth handlers set and clear it; the gate reads it as a fallback
// when no Authorization header is present.
const SessionCookie = "token"

// UserResolver looks up a user by id. Satisfied by *repository.UserRepository.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Auth returns the access-gate middleware. It resolves a bearer token into an
// authenticated user or rejects the request: missing or invalid token and
// unknown user id all yield 401, a disabled account yields 403. The token is
// read from the Authorization header first, then from the session cookie.
// On success the resolved user is attached to the request context.
func Auth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: no token provided")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized: user not found")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if user.Disabled {
				writeJSONError(w, http.StatusForbidden, "access denied: account is disabled")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the request. The Authorization
// header takes precedence over the cookie when both are present.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
			return token
		}
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

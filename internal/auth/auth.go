// Package auth resolves API tokens to users and guards HTTP handlers.
//
// Authentication is token-based: every request carries
// "Authorization: Bearer <token>" and the token maps to exactly one user.
// There is no session state and no role system beyond the staff flag on the
// user record.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sobmedida/atelier-api/internal/models"
)

// TokenSource is the user-lookup side of the store the authenticator reads.
type TokenSource interface {
	GetUserByToken(token string) (*models.User, error)
}

// contextKey is a private type for context values set by this package.
type contextKey int

const userKey contextKey = iota

// Authenticator resolves bearer tokens against a token source.
type Authenticator struct {
	users TokenSource
}

// NewAuthenticator creates an authenticator over the given token source.
func NewAuthenticator(users TokenSource) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate resolves the request's bearer token to a user, or (nil, nil)
// when the token is missing or unknown.
func (a *Authenticator) Authenticate(r *http.Request) (*models.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}
	return a.users.GetUserByToken(token)
}

// Middleware rejects unauthenticated requests with 401 and stores the
// resolved user in the request context for handlers downstream.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Authenticate(r)
		if err != nil {
			slog.Error("Token lookup failed", "error", err, "path", r.URL.Path)
			writeUnauthorized(w, "An error occurred while processing the request.", http.StatusInternalServerError)
			return
		}
		if user == nil {
			slog.Warn("Unauthenticated request rejected", "path", r.URL.Path, "method", r.Method)
			writeUnauthorized(w, "Invalid or missing API token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
	})
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user stored in ctx by Middleware.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// bearerToken extracts the token from the Authorization header, or "" when
// the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.Error(message)); err != nil {
		slog.Error("Failed to encode auth error response", "error", err)
	}
}
